// Package nserve runs start and stop hooks for the services built by
// an nwire Container.
//
// Constructors and factories that need to be started or stopped take
// *App as a parameter and register callbacks with App.On.  Callbacks are
// callables: their parameters are resolved from the App's container.
package nserve

import (
	"context"
	"sync"

	"github.com/muir/nwire"
	"github.com/pkg/errors"
)

var (
	// AppKey is the key the App binds itself under
	AppKey = nwire.TypeKey[*App]()
	// ContextKey is bound to a context that is canceled by the
	// Shutdown hook
	ContextKey = nwire.TypeKey[context.Context]()
)

// App provides hooks to start and stop the libraries that are used by
// an app.
type App struct {
	Name      string
	container *nwire.Container
	ctx       context.Context
	lock      sync.Mutex // held when adding hooks
	runLock   sync.Mutex // held when running hooks
	hooks     map[hookID][]callback
}

type callback struct {
	callable any
	opts     []nwire.ParamOption
}

// CreateApp builds a container from definitions with the App and its
// context added under AppKey and ContextKey.
func CreateApp(name string, definitions map[string]nwire.Definition, opts ...nwire.Option) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Name:  name,
		ctx:   ctx,
		hooks: make(map[hookID][]callback),
	}
	defs := make(map[string]nwire.Definition, len(definitions)+2)
	for k, d := range definitions {
		defs[k] = d
	}
	defs[AppKey] = nwire.Value(app)
	defs[ContextKey] = nwire.Value(ctx)
	app.container = nwire.New(defs, opts...)
	app.On(Shutdown, cancel)
	return app
}

func (app *App) Container() *nwire.Container { return app.container }

// Context is canceled when the Shutdown hook runs
func (app *App) Context() context.Context { return app.ctx }

// Require resolves keys so that the constructors and factories behind
// them run and register their hooks.  Every resolution is a fresh
// build so a key should be required once.
func (app *App) Require(keys ...string) error {
	for _, key := range keys {
		if _, err := app.container.Get(key); err != nil {
			return errors.Wrapf(err, "app %s", app.Name)
		}
	}
	return nil
}

// On registers a callable to be invoked when the hook runs.  It may be
// called from inside a callback: a start callback can register the
// matching stop callback.
func (app *App) On(h *Hook, callable any, opts ...nwire.ParamOption) {
	app.lock.Lock()
	defer app.lock.Unlock()
	app.hooks[h.id] = append(app.hooks[h.id], callback{callable: callable, opts: opts})
}

// Do invokes the callbacks for a hook.  It returns only the first error
// reported unless the hook has an error combiner.  If any callback
// fails, the hook's InvokeOnError hooks run too.
func (app *App) Do(h *Hook) error {
	app.runLock.Lock()
	defer app.runLock.Unlock()
	return app.do(h)
}

func (app *App) do(h *Hook) error {
	order, onError, continuePast, ec := h.settings()
	if ec == nil {
		ec = func(err, _ error) error { return err }
	}
	combine := func(e1, e2 error) error {
		if e1 == nil {
			return e2
		}
		if e2 == nil {
			return e1
		}
		return ec(e1, e2)
	}
	app.lock.Lock()
	callbacks := make([]callback, len(app.hooks[h.id]))
	copy(callbacks, app.hooks[h.id])
	app.lock.Unlock()
	if order == ReverseOrder {
		for i, j := 0, len(callbacks)-1; i < j; i, j = i+1, j-1 {
			callbacks[i], callbacks[j] = callbacks[j], callbacks[i]
		}
	}
	var err error
	for _, cb := range callbacks {
		_, e := app.container.Invoke(cb.callable, nil, cb.opts...)
		err = combine(err, e)
		if err != nil && !continuePast {
			break
		}
	}
	if err != nil {
		for _, oe := range onError {
			err = combine(err, app.do(oe))
		}
	}
	return err
}
