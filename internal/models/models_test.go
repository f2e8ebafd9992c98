package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replaygear/replay_api/internal/models"
)

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, models.SellRequestPending.IsTerminal())
	assert.True(t, models.SellRequestApproved.IsTerminal())
	assert.True(t, models.SellRequestRejected.IsTerminal())
}

func TestContactMethodRules(t *testing.T) {
	assert.False(t, models.ContactEmail.RequiresDetail())
	assert.True(t, models.ContactPhone.RequiresDetail())
	assert.True(t, models.ContactWhatsApp.RequiresDetail())

	assert.True(t, models.ContactEmail.Valid())
	assert.False(t, models.ContactMethod("Fax").Valid())
}

func TestSpecMapScan(t *testing.T) {
	var m models.SpecMap
	require.NoError(t, m.Scan([]byte(`{"contactMethod":"Phone"}`)))
	assert.Equal(t, "Phone", m["contactMethod"])

	var empty models.SpecMap
	require.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty)

	var bad models.SpecMap
	assert.Error(t, bad.Scan([]byte(`{broken`)))
}
