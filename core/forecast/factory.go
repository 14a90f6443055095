package forecast

import (
	"github.com/kilianp07/laborplan/core/factory"
)

// NewRegistry returns a registry with every forecaster variant registered.
// Models are instantiated from {type, conf} configuration blocks, so the
// choice of model is a configuration concern, not a call-site one.
//
// Registered types: "naive", "seasonal", "moving_average", "ridge".
func NewRegistry() *factory.Registry[Forecaster] {
	reg := factory.NewRegistry[Forecaster]()

	// Registrations below cannot collide: the registry starts empty.
	_ = reg.Register("naive", func(map[string]any) (Forecaster, error) {
		return NewNaivePersistence(), nil
	})
	_ = reg.Register("seasonal", func(conf map[string]any) (Forecaster, error) {
		c := struct {
			Period int `json:"period"`
		}{Period: 52}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSeasonalPersistence(c.Period)
	})
	_ = reg.Register("moving_average", func(conf map[string]any) (Forecaster, error) {
		c := struct {
			Window int `json:"window"`
		}{Window: 4}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewMovingAverage(c.Window)
	})
	_ = reg.Register("ridge", func(conf map[string]any) (Forecaster, error) {
		var c RidgeConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewRidge(c)
	})
	return reg
}
