package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile_Defaults(t *testing.T) {
	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
	assert.Equal(t, 10, cfg.Booking.HoldMinutes)
	assert.Equal(t, 10*time.Minute, cfg.Booking.HoldDuration())
	assert.Equal(t, 100.0, cfg.Booking.SecurityDeposit)
	assert.Equal(t, 30.0, cfg.Booking.LateFeePerHour)
	assert.Equal(t, 8, cfg.Booking.PickupHour)
	assert.Equal(t, "https://wa.me/", cfg.Messaging.BaseURL)
	assert.Empty(t, cfg.Booking.SweepSchedule)
}

func TestLoadConfigFile_EnvOverrides(t *testing.T) {
	t.Setenv("HOLD_MINUTES", "15")
	t.Setenv("SECURITY_DEPOSIT", "250.5")
	t.Setenv("TIMEZONE", "Asia/Jakarta")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example")
	t.Setenv("SHOP_PHONE", "+62 812 0000")

	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Booking.HoldDuration())
	assert.Equal(t, 250.5, cfg.Booking.SecurityDeposit)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.App.CORSOrigins)
	assert.Equal(t, "+62 812 0000", cfg.Messaging.ShopPhone)

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestLoadConfigFile_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nPICKUP_HOUR=9\n"), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 9, cfg.Booking.PickupHour)
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	t.Run("Hold minutes", func(t *testing.T) {
		t.Setenv("HOLD_MINUTES", "0")
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "HOLD_MINUTES")
	})

	t.Run("Pickup hour", func(t *testing.T) {
		t.Setenv("PICKUP_HOUR", "24")
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "PICKUP_HOUR")
	})
}

func TestBookingConfigLocation_Unknown(t *testing.T) {
	_, err := BookingConfig{Timezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}
