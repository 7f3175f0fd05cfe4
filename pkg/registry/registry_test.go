// pkg/registry/registry_test.go
package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := LoadRegistry("../../configs/forms.json")
	require.NoError(t, err)
	return r
}

func TestLoadRegistry_AllFormTypesPresent(t *testing.T) {
	r := testRegistry(t)

	assert.Equal(t, []string{"facility_reservation", "customer_registration", "customer_change"}, r.Types())

	form, ok := r.Form("facility_reservation")
	require.True(t, ok)
	assert.Equal(t, "Facility Reservation", form.DisplayName)
	assert.Equal(t, "facility", form.Fields[0].Key)
}

func TestRegistry_Labels(t *testing.T) {
	r := testRegistry(t)

	labels := r.Labels("facility_reservation")
	assert.Equal(t, "Facility", labels["facility"])
	assert.Equal(t, "Date", labels["date"])

	assert.Empty(t, r.Labels("no_such_form"))
}

func TestRegistry_Validate(t *testing.T) {
	r := testRegistry(t)

	violations, err := r.Validate("facility_reservation", map[string]string{
		"facility":  "Meeting room B",
		"date":      "2025-11-01",
		"startTime": "10:00",
		"endTime":   "11:30",
	})
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestRegistry_Validate_MissingRequiredField(t *testing.T) {
	r := testRegistry(t)

	violations, err := r.Validate("customer_registration", map[string]string{
		"customerName": "Acme",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, violations)
}

func TestRegistry_Validate_BadPattern(t *testing.T) {
	r := testRegistry(t)

	violations, err := r.Validate("customer_registration", map[string]string{
		"customerName": "Acme",
		"address":      "Chiyoda-ku",
		"postalCode":   "100-0001",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, violations)
}

func TestRegistry_Validate_UnknownFormType(t *testing.T) {
	r := testRegistry(t)

	_, err := r.Validate("no_such_form", map[string]string{})
	assert.Error(t, err)
}
