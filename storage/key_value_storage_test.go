package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/brightpath-it/backoffice/storage/model"
)

type contactDetails struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func TestKeyValueStorage(t *testing.T) {
	s, _ := newTestStorage(t)
	kv := s.KeyValue()

	raw, err := kv.Get(model.KeyValueScopeSite, model.KeyValueKeyAbout)
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, kv.Set(model.KeyValueScopeSite, model.KeyValueKeyAbout, datatypes.JSON(`"We staff IT projects."`)))
	require.NoError(t, kv.Set(model.KeyValueScopeSite, model.KeyValueKeyAbout, datatypes.JSON(`"We staff and run IT projects."`)))
	raw, err = kv.Get(model.KeyValueScopeSite, model.KeyValueKeyAbout)
	require.NoError(t, err)
	assert.JSONEq(t, `"We staff and run IT projects."`, string(raw))

	want := contactDetails{Email: "info@example.com", Phone: "+1 555 0100", Address: "1 Main St"}
	require.NoError(t, kv.SetAny(model.KeyValueScopeSite, model.KeyValueKeyContact, want))
	var got contactDetails
	found, err := kv.GetAs(model.KeyValueScopeSite, model.KeyValueKeyContact, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	settings, err := SiteSettings(kv)
	require.NoError(t, err)
	assert.Len(t, settings, 2)
	assert.Contains(t, settings, model.KeyValueKeyAbout)

	require.NoError(t, kv.Delete(model.KeyValueScopeSite, model.KeyValueKeyAbout))
	require.NoError(t, kv.Delete(model.KeyValueScopeSite, model.KeyValueKeyAbout))
	raw, err = kv.Get(model.KeyValueScopeSite, model.KeyValueKeyAbout)
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, kv.Set(model.KeyValueScopeSite, model.KeyValueKeyAbout, datatypes.JSON(`"back"`)))
	raw, err = kv.Get(model.KeyValueScopeSite, model.KeyValueKeyAbout)
	require.NoError(t, err)
	assert.JSONEq(t, `"back"`, string(raw))

	assertValidation(t, kv.Set(model.KeyValueScopeSite, model.KeyValueKeyFooter, datatypes.JSON(`{broken`)))
}
