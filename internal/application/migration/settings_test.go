package migration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storesync/migrator/internal/domain/snapshot"
	"github.com/storesync/migrator/internal/infrastructure/target"
)

func TestConfigurationApplierNilIsNoop(t *testing.T) {
	api := &stubAPI{}
	a := NewConfigurationApplier(api, zap.NewNop(), nil)

	require.NoError(t, a.Apply(context.Background(), nil))
	assert.Equal(t, 0, api.calls)
}

func TestConfigurationApplierSettingsGroups(t *testing.T) {
	var groups []string
	var updates map[string][]target.SettingUpdate
	api := &stubAPI{
		updateSettingsGroup: func(group string, ups []target.SettingUpdate) error {
			groups = append(groups, group)
			if updates == nil {
				updates = make(map[string][]target.SettingUpdate)
			}
			updates[group] = ups
			return nil
		},
	}
	a := NewConfigurationApplier(api, zap.NewNop(), nil)

	cfg := &snapshot.StoreConfiguration{
		SettingGroups: map[string][]snapshot.Setting{
			"tax":     {{ID: "woocommerce_calc_taxes", Value: snapshot.StringSetting("yes")}},
			"general": {{ID: "woocommerce_currency", Value: snapshot.StringSetting("EUR")}},
			"empty":   {},
		},
	}
	require.NoError(t, a.Apply(context.Background(), cfg))

	// Groups apply in sorted order; empty groups are skipped.
	assert.Equal(t, []string{"general", "tax"}, groups)
	require.Len(t, updates["general"], 1)
	assert.Equal(t, "woocommerce_currency", updates["general"][0].ID)
}

func TestConfigurationApplierShippingZones(t *testing.T) {
	var zoneUpdates []int64
	var locationReplacements []int64
	var methodUpdates []int64
	api := &stubAPI{
		updateShippingZone: func(zoneID int64, req target.ShippingZoneRequest) error {
			zoneUpdates = append(zoneUpdates, zoneID)
			assert.Equal(t, "Europe", req.Name)
			return nil
		},
		replaceLocations: func(zoneID int64, locations []target.ZoneLocationRequest) error {
			locationReplacements = append(locationReplacements, zoneID)
			require.Len(t, locations, 1)
			assert.Equal(t, "PT", locations[0].Code)
			return nil
		},
		updateZoneMethod: func(zoneID, instanceID int64, req target.ZoneMethodRequest) error {
			methodUpdates = append(methodUpdates, instanceID)
			require.NotNil(t, req.Enabled)
			assert.True(t, *req.Enabled)
			return nil
		},
	}
	a := NewConfigurationApplier(api, zap.NewNop(), nil)

	cfg := &snapshot.StoreConfiguration{
		ShippingZones: []snapshot.ShippingZone{{
			ID:        2,
			Name:      "Europe",
			Locations: []snapshot.ZoneLocation{{Code: "PT", Type: "country"}},
			Methods: []snapshot.ZoneMethod{{
				InstanceID: 7,
				MethodID:   "flat_rate",
				Enabled:    true,
				Settings:   map[string]snapshot.Setting{"cost": {ID: "cost", Value: snapshot.StringSetting("4.90")}},
			}},
		}},
	}
	require.NoError(t, a.Apply(context.Background(), cfg))

	assert.Equal(t, []int64{2}, zoneUpdates)
	assert.Equal(t, []int64{2}, locationReplacements)
	assert.Equal(t, []int64{7}, methodUpdates)
}

func TestConfigurationApplierMethodInstanceMissing(t *testing.T) {
	// A captured instance id that no longer exists on the target falls back
	// to creating the method by its method id.
	var createdMethodID string
	api := &stubAPI{
		updateZoneMethod: func(zoneID, instanceID int64, req target.ZoneMethodRequest) error {
			return notFoundErr()
		},
		createZoneMethod: func(zoneID int64, req target.ZoneMethodRequest) error {
			createdMethodID = req.MethodID
			return nil
		},
	}
	a := NewConfigurationApplier(api, zap.NewNop(), nil)

	cfg := &snapshot.StoreConfiguration{
		ShippingZones: []snapshot.ShippingZone{{
			ID:      2,
			Methods: []snapshot.ZoneMethod{{InstanceID: 7, MethodID: "free_shipping"}},
		}},
	}
	require.NoError(t, a.Apply(context.Background(), cfg))
	assert.Equal(t, "free_shipping", createdMethodID)
}

func TestConfigurationApplierPaymentGateways(t *testing.T) {
	var gatewayIDs []string
	api := &stubAPI{
		updateGateway: func(gatewayID string, req target.PaymentGatewayRequest) error {
			gatewayIDs = append(gatewayIDs, gatewayID)
			require.NotNil(t, req.Enabled)
			assert.True(t, *req.Enabled)
			assert.Equal(t, "Bank transfer", req.Title)
			return nil
		},
	}
	a := NewConfigurationApplier(api, zap.NewNop(), nil)

	cfg := &snapshot.StoreConfiguration{
		PaymentGateways: []snapshot.PaymentGateway{{
			ID:      "bacs",
			Title:   "Bank transfer",
			Enabled: true,
		}},
	}
	require.NoError(t, a.Apply(context.Background(), cfg))
	assert.Equal(t, []string{"bacs"}, gatewayIDs)
}

func TestConfigurationApplierZoneErrorIsFatal(t *testing.T) {
	api := &stubAPI{
		updateShippingZone: func(zoneID int64, req target.ShippingZoneRequest) error {
			return &target.APIError{StatusCode: 500, Body: "boom"}
		},
	}
	a := NewConfigurationApplier(api, zap.NewNop(), nil)

	cfg := &snapshot.StoreConfiguration{
		ShippingZones: []snapshot.ShippingZone{{ID: 2, Name: "Europe"}},
	}
	err := a.Apply(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shipping zone 2")
}
