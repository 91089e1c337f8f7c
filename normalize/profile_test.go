package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etlabapp/gateway/normalize"
)

func TestProfileMapsSections(t *testing.T) {
	raw := []byte(`{
		"personal_info": {"Name":"Jane Doe","Blood Group":"O+"},
		"contact_info": {"Mobile No":"9876543210"},
		"academic_info": {"SR No":"SR1234","University Reg No":"UREG5678"}
	}`)

	profile := normalize.Profile(raw)

	require.Equal(t, "Jane Doe", *profile["name"])
	require.Equal(t, "9876543210", *profile["mobileNumber"])
	require.Equal(t, "SR1234", *profile["srNumber"])
	require.Equal(t, "UREG5678", *profile["universityRegNo"])
}

func TestProfileOmitsAbsentSections(t *testing.T) {
	raw := []byte(`{"personal_info": {"Name":"Jane Doe"}}`)

	profile := normalize.Profile(raw)

	require.Contains(t, profile, "name")
	require.NotContains(t, profile, "mobileNumber")
	require.NotContains(t, profile, "srNumber")
	require.NotContains(t, profile, "universityRegNo")
}

func TestProfilePresentSectionMissingValue(t *testing.T) {
	raw := []byte(`{"academic_info": {"SR No":"SR1234"}}`)

	profile := normalize.Profile(raw)

	require.Equal(t, "SR1234", *profile["srNumber"])
	require.Contains(t, profile, "universityRegNo")
	require.Nil(t, profile["universityRegNo"])
}
