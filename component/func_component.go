package component

import "context"

// FuncComponent adapts plain start/stop functions into a Component.
// The bootstrap package uses it to manage pieces like the OTLP tracer
// and meter providers without dedicated types.
type FuncComponent struct {
	name        string
	description Description
	startFn     func(ctx context.Context) error
	stopFn      func(ctx context.Context) error
	healthFn    func(ctx context.Context) error
	started     bool
}

// NewFuncComponent creates a component from a name and a start function.
func NewFuncComponent(name string, start func(ctx context.Context) error) *FuncComponent {
	return &FuncComponent{name: name, startFn: start}
}

// WithStop sets the stop function.
func (f *FuncComponent) WithStop(stop func(ctx context.Context) error) *FuncComponent {
	f.stopFn = stop
	return f
}

// WithHealth sets a custom health check. Without one, a started component
// reports healthy.
func (f *FuncComponent) WithHealth(health func(ctx context.Context) error) *FuncComponent {
	f.healthFn = health
	return f
}

// WithDescription sets the startup summary description.
func (f *FuncComponent) WithDescription(d Description) *FuncComponent {
	f.description = d
	return f
}

// Name returns the component name.
func (f *FuncComponent) Name() string { return f.name }

// Start runs the start function.
func (f *FuncComponent) Start(ctx context.Context) error {
	if f.startFn != nil {
		if err := f.startFn(ctx); err != nil {
			return err
		}
	}
	f.started = true
	return nil
}

// Stop runs the stop function.
func (f *FuncComponent) Stop(ctx context.Context) error {
	f.started = false
	if f.stopFn != nil {
		return f.stopFn(ctx)
	}
	return nil
}

// Health reports the component's health.
func (f *FuncComponent) Health(ctx context.Context) Health {
	if !f.started {
		return Health{Name: f.name, Status: StatusUnhealthy, Message: "not started"}
	}
	if f.healthFn != nil {
		if err := f.healthFn(ctx); err != nil {
			return Health{Name: f.name, Status: StatusUnhealthy, Message: err.Error()}
		}
	}
	return Health{Name: f.name, Status: StatusHealthy}
}

// Describe returns the startup summary description.
func (f *FuncComponent) Describe() Description {
	d := f.description
	if d.Name == "" {
		d.Name = f.name
	}
	return d
}
