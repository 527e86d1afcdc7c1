package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidator_NoConstraintsAlwaysPasses(t *testing.T) {
	assert.NoError(t, Value("anything", nil).Validate())
	assert.NoError(t, Value("anything", 42).Validate())
	assert.NoError(t, Value("anything", "x").Validate())
}

func TestValidator_Nullable(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"nil string pointer", (*string)(nil)},
		{"nil slice", []string(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// nullable registered last still short-circuits
			err := Value("custom_config", tt.value).MaxLength(3).Pattern(`[a-z]+`).Nullable().Validate()
			assert.NoError(t, err)

			err = Value("custom_config", tt.value).MaxLength(3).Validate()
			require.Error(t, err)
			verr, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, ConstraintNotNull, verr.Constraint)
			assert.Equal(t, "custom_config", verr.Field)
		})
	}
}

func TestValidator_FirstViolationWins(t *testing.T) {
	err := Value("name", "THIS-IS-TOO-LONG").MaxLength(4).Pattern(`[a-z]+`).Validate()
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, ConstraintMaxLength, verr.Constraint)

	err = Value("name", "ABC").MaxLength(4).Pattern(`[a-z]+`).Validate()
	verr, ok = AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, ConstraintPattern, verr.Constraint)
	assert.Equal(t, "ABC", verr.Value)
}

func TestValidator_PatternIsAnchored(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"abc", true},
		{"abc-def_1", true},
		{"abc DEF", false},
		{"UPPER", false},
		{"ok\nbad", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := Value("name", tt.value).Pattern(`[a-z0-9-_]+`).Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}

	// patterns that already carry anchors keep working
	assert.NoError(t, Value("v", "18.2").Pattern(`^[0-9]{1,2}\.[0-9]{1,2}$`).Validate())
	assert.Error(t, Value("v", "v18.2").Pattern(`^[0-9]{1,2}\.[0-9]{1,2}$`).Validate())
}

func TestValidator_MaxLengthCountsCharacters(t *testing.T) {
	assert.NoError(t, Value("d", "ééé").MaxLength(3).Validate())
	assert.Error(t, Value("d", "éééé").MaxLength(3).Validate())
	assert.NoError(t, Value("d", strPtr("abc")).MaxLength(3).Validate())
}

func TestValidator_ValueIn(t *testing.T) {
	allowed := []string{"Apache", "nginx"}
	for _, v := range allowed {
		assert.NoError(t, Value("server_software_name", v).ValueIn(allowed...).Validate(), v)
	}
	for _, v := range []string{"apache", "IIS", ""} {
		err := Value("server_software_name", v).ValueIn(allowed...).Validate()
		verr, ok := AsValidationError(err)
		require.True(t, ok, v)
		assert.Equal(t, ConstraintValueIn, verr.Constraint)
	}
}

func TestValidator_ValuesInAndUnique(t *testing.T) {
	allowed := []string{"Indexes", "Limit", "FileInfo"}

	assert.NoError(t, Value("d", []string{"Indexes", "Limit"}).ValuesIn(allowed...).Unique().Validate())
	assert.NoError(t, Value("d", []string{}).ValuesIn(allowed...).Unique().Validate())

	err := Value("d", []string{"Indexes", "Bogus"}).ValuesIn(allowed...).Unique().Validate()
	verr, _ := AsValidationError(err)
	require.NotNil(t, verr)
	assert.Equal(t, ConstraintValuesIn, verr.Constraint)

	err = Value("d", []string{"Indexes", "Indexes"}).ValuesIn(allowed...).Unique().Validate()
	verr, _ = AsValidationError(err)
	require.NotNil(t, verr)
	assert.Equal(t, ConstraintUnique, verr.Constraint)
}

func TestValidator_PathAndEndsWith(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		constraint string
	}{
		{"valid", "/home/app/server.js", ""},
		{"relative", "home/app/server.js", ConstraintPath},
		{"newline", "/home/app\n/server.js", ConstraintPath},
		{"wrong suffix", "/home/app/server.ts", ConstraintEndsWith},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Value("startup_file", tt.value).Nullable().Path().EndsWith(".js").Validate()
			if tt.constraint == "" {
				assert.NoError(t, err)
				return
			}
			verr, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.constraint, verr.Constraint)
		})
	}
}

func TestValidator_Each(t *testing.T) {
	versions := []string{"18.2", "20.11"}
	assert.NoError(t, Value("nodejs_versions", versions).Each().Pattern(`[0-9]{1,2}\.[0-9]{1,2}`).Validate())

	err := Value("nodejs_versions", []string{"18.2", "latest"}).Each().Pattern(`[0-9]{1,2}\.[0-9]{1,2}`).Validate()
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, ConstraintPattern, verr.Constraint)
	assert.Contains(t, verr.Message, "element 1")
}

func TestValidator_TypeMismatch(t *testing.T) {
	err := Value("name", 12).MaxLength(3).Validate()
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, ConstraintType, verr.Constraint)

	err = Value("groups", "single").Unique().Validate()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidationError_Is(t *testing.T) {
	err := error(Required("mail_domain_id"))
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Equal(t, "invalid mail_domain_id: field is required", err.Error())

	_, ok := AsValidationError(errors.New("other"))
	assert.False(t, ok)
}
