package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintString(t *testing.T) {
	a := FingerprintString("{ call fnd_user_pkg.CreateUser ( x_user_name => ? ) }")
	b := FingerprintString("{ call fnd_user_pkg.CreateUser ( x_user_name => ? ) }")
	c := FingerprintString("{ call fnd_user_pkg.UpdateUser ( x_user_name => ? ) }")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestStatementKey(t *testing.T) {
	text := "x_user_name => ?"
	assert.Equal(t, StatementKey("jdbc", text), StatementKey("jdbc", text))
	assert.NotEqual(t, StatementKey("jdbc", text), StatementKey("oracle", text))
}

func TestU64ToBytes(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, U64ToBytes(0x0102))
}

func TestGenerators(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		validate func(t *testing.T, id string)
	}{
		{
			name: "default is ulid",
			kind: "",
			validate: func(t *testing.T, id string) {
				_, err := ulid.ParseStrict(id)
				assert.NoError(t, err)
			},
		},
		{
			name: "ulid",
			kind: "ulid",
			validate: func(t *testing.T, id string) {
				_, err := ulid.ParseStrict(id)
				assert.NoError(t, err)
			},
		},
		{
			name: "uuid",
			kind: "uuid",
			validate: func(t *testing.T, id string) {
				_, err := uuid.Parse(id)
				assert.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewGenerator(tt.kind)
			require.NoError(t, err)

			id, err := gen.Generate()
			require.NoError(t, err)
			tt.validate(t, id)
		})
	}

	_, err := NewGenerator("snowflake")
	assert.EqualError(t, err, "unknown generator type: snowflake")
}

func TestULIDGeneratorMonotonic(t *testing.T) {
	gen := NewULIDGenerator()
	prev := ""
	for i := 0; i < 100; i++ {
		id, err := gen.Generate()
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
}
