// Command nwire builds a container from definition files and either
// resolves one key or serves the debugging endpoints.
//
//	nwire --config defs.yaml --env .env --get listen.address
//	nwire --config defs.yaml --listen :8080
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muir/nwire"
	"github.com/muir/nwire/nconfig"
	"github.com/muir/nwire/nhttp"
	"github.com/muir/nwire/nserve"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type flags struct {
	configs []string
	envs    []string
	get     string
	listen  string
	verbose bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var f flags
	fs := pflag.NewFlagSet("nwire", pflag.ContinueOnError)
	fs.StringSliceVar(&f.configs, "config", nil, "YAML definitions file (repeatable; later files win)")
	fs.StringSliceVar(&f.envs, "env", nil, "dotenv file (repeatable)")
	fs.StringVar(&f.get, "get", "", "resolve this key and print the result")
	fs.StringVar(&f.listen, "listen", "", "serve the debugging endpoints on this address")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if (f.get == "") == (f.listen == "") {
		fmt.Fprintln(os.Stderr, "exactly one of --get or --listen is required")
		fs.PrintDefaults()
		return 2
	}

	log := newLogger(f.verbose)
	// nolint:errcheck
	defer log.Sync()

	c, err := build(f, log)
	if err != nil {
		log.Error("could not load definitions", zap.Error(err))
		return 1
	}

	if f.get != "" {
		v, err := c.Get(f.get)
		if err != nil {
			fmt.Fprintln(os.Stderr, nwire.DetailedError(err))
			return 1
		}
		fmt.Printf("%v\n", v)
		return 0
	}

	return serve(f.listen, c, log)
}

// serve runs the debugging endpoints until the process is interrupted
func serve(addr string, c *nwire.Container, log *zap.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	basic := nwire.LoggerFromZap(log)
	app := nserve.CreateApp("nwire", c.Definitions(), nwire.WithLogger(basic))
	srv := &http.Server{
		Addr:              addr,
		Handler:           nhttp.Handler(app.Container(), nhttp.WithLogger(basic)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	served := make(chan error, 1)
	app.On(nserve.Start, func() error {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		log.Info("serving", zap.String("address", ln.Addr().String()))
		go func() { served <- srv.Serve(ln) }()
		return nil
	})
	app.On(nserve.Stop, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})

	code := 0
	if err := app.Do(nserve.Start); err != nil {
		log.Error("could not start", zap.Error(err))
		return 1
	}
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-served:
		log.Error("server stopped", zap.Error(err))
		code = 1
	}
	if err := app.Do(nserve.Stop); err != nil {
		log.Error("could not stop", zap.Error(err))
		code = 1
	}
	if err := app.Do(nserve.Shutdown); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	return code
}

func build(f flags, log *zap.Logger) (*nwire.Container, error) {
	b := nwire.NewBuilder(nwire.WithLogger(nwire.LoggerFromZap(log)))
	if len(f.envs) > 0 {
		m, err := nconfig.Env(f.envs)
		if err != nil {
			return nil, err
		}
		b.WithModule(m)
	}
	for _, path := range f.configs {
		m, err := nconfig.YAMLFile(path)
		if err != nil {
			return nil, err
		}
		b.WithModule(m)
	}
	return b.Build(), nil
}

func newLogger(verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
