package service

import (
	"testing"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreference_DefaultsToLight(t *testing.T) {
	svc := NewPreferenceService(newMemoryStore(t), nil)
	assert.Equal(t, domain.ThemeLight, svc.Mode())
}

func TestPreference_ToggleTwiceRestoresAndPersists(t *testing.T) {
	storage := newMemoryStore(t)
	svc := NewPreferenceService(storage, nil)

	assert.Equal(t, domain.ThemeDark, svc.Toggle())
	mode, ok := storage.LoadThemeMode()
	require.True(t, ok)
	assert.Equal(t, domain.ThemeDark, mode)

	assert.Equal(t, domain.ThemeLight, svc.Toggle())
	mode, ok = storage.LoadThemeMode()
	require.True(t, ok)
	assert.Equal(t, domain.ThemeLight, mode)
}

func TestPreference_Set(t *testing.T) {
	storage := newMemoryStore(t)
	svc := NewPreferenceService(storage, nil)

	require.NoError(t, svc.Set(domain.ThemeDark))
	assert.Equal(t, domain.ThemeDark, NewPreferenceService(storage, nil).Mode())

	var verr *domain.ValidationError
	require.ErrorAs(t, svc.Set("sepia"), &verr)
	assert.Equal(t, domain.ThemeDark, svc.Mode())
}
