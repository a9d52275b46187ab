package migration

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/storesync/migrator/internal/domain/replication"
	"github.com/storesync/migrator/internal/domain/snapshot"
	"github.com/storesync/migrator/internal/infrastructure/target"
)

// ConfigurationApplier pushes the captured store configuration onto the
// target: grouped settings, shipping zones and payment gateways. Every
// reference it sends is a stable id or string known up front, so no
// identity mapping is involved.
type ConfigurationApplier struct {
	api      SettingsAPI
	log      *zap.Logger
	progress replication.ProgressFunc
}

// NewConfigurationApplier creates a configuration applier.
func NewConfigurationApplier(api SettingsAPI, log *zap.Logger, progress replication.ProgressFunc) *ConfigurationApplier {
	return &ConfigurationApplier{api: api, log: log, progress: progress}
}

// Apply pushes the whole configuration. A nil configuration is a no-op.
func (a *ConfigurationApplier) Apply(ctx context.Context, cfg *snapshot.StoreConfiguration) error {
	if cfg == nil {
		return nil
	}
	if err := a.applySettings(ctx, cfg.SettingGroups); err != nil {
		return err
	}
	if err := a.applyShippingZones(ctx, cfg.ShippingZones); err != nil {
		return err
	}
	if err := a.applyPaymentGateways(ctx, cfg.PaymentGateways); err != nil {
		return err
	}
	return nil
}

func (a *ConfigurationApplier) applySettings(ctx context.Context, groups map[string][]snapshot.Setting) error {
	// Deterministic group order keeps runs reproducible and logs readable.
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		settings := groups[name]
		if len(settings) == 0 {
			continue
		}
		updates := make([]target.SettingUpdate, 0, len(settings))
		for _, s := range settings {
			updates = append(updates, target.SettingUpdate{ID: s.ID, Value: s.Value})
		}
		if err := a.api.UpdateSettingsGroup(ctx, name, updates); err != nil {
			return fmt.Errorf("settings group %q: %w", name, err)
		}
		a.progress.Emit("settings group %s applied (%d options)", name, len(updates))
	}
	return nil
}

func (a *ConfigurationApplier) applyShippingZones(ctx context.Context, zones []snapshot.ShippingZone) error {
	for _, zone := range zones {
		if err := ctx.Err(); err != nil {
			return err
		}
		order := zone.Order
		if err := a.api.UpdateShippingZone(ctx, zone.ID, target.ShippingZoneRequest{Name: zone.Name, Order: &order}); err != nil {
			return fmt.Errorf("shipping zone %d: %w", zone.ID, err)
		}

		locations := make([]target.ZoneLocationRequest, 0, len(zone.Locations))
		for _, loc := range zone.Locations {
			locations = append(locations, target.ZoneLocationRequest{Code: loc.Code, Type: loc.Type})
		}
		if err := a.api.ReplaceZoneLocations(ctx, zone.ID, locations); err != nil {
			return fmt.Errorf("shipping zone %d locations: %w", zone.ID, err)
		}

		for _, method := range zone.Methods {
			if err := a.applyZoneMethod(ctx, zone.ID, method); err != nil {
				return fmt.Errorf("shipping zone %d method %q: %w", zone.ID, method.MethodID, err)
			}
		}
		a.progress.Emit("shipping zone %s applied (%d methods)", zone.Name, len(zone.Methods))
	}
	return nil
}

// applyZoneMethod updates the method by its captured instance id; when the
// instance no longer exists on the target the method is re-created by its
// method id instead.
func (a *ConfigurationApplier) applyZoneMethod(ctx context.Context, zoneID int64, method snapshot.ZoneMethod) error {
	enabled := method.Enabled
	order := method.Order
	req := target.ZoneMethodRequest{
		Enabled:  &enabled,
		Order:    &order,
		Settings: settingValues(method.Settings),
	}

	err := a.api.UpdateZoneMethod(ctx, zoneID, method.InstanceID, req)
	if err == nil {
		return nil
	}
	if !target.IsNotFound(err) {
		return err
	}

	a.log.Debug("method instance missing on target, creating by method id",
		zap.Int64("zone_id", zoneID),
		zap.Int64("instance_id", method.InstanceID),
		zap.String("method_id", method.MethodID),
	)
	req.MethodID = method.MethodID
	return a.api.CreateZoneMethod(ctx, zoneID, req)
}

func (a *ConfigurationApplier) applyPaymentGateways(ctx context.Context, gateways []snapshot.PaymentGateway) error {
	for _, gw := range gateways {
		if err := ctx.Err(); err != nil {
			return err
		}
		enabled := gw.Enabled
		req := target.PaymentGatewayRequest{
			Title:       gw.Title,
			Description: gw.Description,
			Enabled:     &enabled,
			Settings:    settingValues(gw.Settings),
		}
		if err := a.api.UpdatePaymentGateway(ctx, gw.ID, req); err != nil {
			return fmt.Errorf("payment gateway %q: %w", gw.ID, err)
		}
		a.progress.Emit("payment gateway %s applied", gw.ID)
	}
	return nil
}

// settingValues flattens a settings map to the id -> value shape the
// target expects. SettingValue keeps its original JSON form when encoded.
func settingValues(settings map[string]snapshot.Setting) map[string]any {
	if len(settings) == 0 {
		return nil
	}
	out := make(map[string]any, len(settings))
	for key, s := range settings {
		out[key] = s.Value
	}
	return out
}
