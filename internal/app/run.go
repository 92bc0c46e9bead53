package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vk/forgegen/internal/ctxlog"
	"github.com/vk/forgegen/internal/emit"
	"github.com/vk/forgegen/internal/fsutil"
	"github.com/vk/forgegen/internal/loader"
	"github.com/vk/forgegen/internal/scope"
	"github.com/vk/forgegen/internal/toolchain"
)

// toolchainContext pairs the settings of one evaluation context with the
// overrides scoped to it.
type toolchainContext struct {
	settings  *toolchain.Settings
	overrides scope.KeyValueMap
}

// Run executes one generator pass: load the root config, register
// overrides, evaluate every build file under every toolchain, audit the
// overrides, and emit the manifest (or the argument listing).
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run started.", "project", a.config.ProjectPath)

	rootPath := filepath.Join(a.config.ProjectPath, RootFileName)
	root, err := a.loader.LoadRoot(rootPath)
	if err != nil {
		return fmt.Errorf("failed to load root config: %w", err)
	}
	a.logger.Debug("Root config loaded.", "default_args", len(root.DefaultArgs), "toolchains", len(root.Toolchains))

	a.args.AddDefaultArgOverrides(root.DefaultArgs)

	cliOverrides, err := loader.ParseOverrides(a.config.Overrides)
	if err != nil {
		return err
	}
	a.args.AddArgOverrides(cliOverrides)

	buildFiles, err := fsutil.FindBuildFiles(a.config.ProjectPath, RootFileName)
	if err != nil {
		return fmt.Errorf("failed to discover build files: %w", err)
	}
	a.logger.Debug("Discovered build files.", "count", len(buildFiles))

	contexts := []toolchainContext{{settings: toolchain.New(""), overrides: scope.KeyValueMap{}}}
	for _, def := range root.Toolchains {
		contexts = append(contexts, toolchainContext{
			settings:  toolchain.New(def.Label),
			overrides: def.Overrides,
		})
	}

	// Each toolchain evaluates on its own goroutine with its own scope
	// tree; the argument service is the only shared state.
	var (
		mu         sync.Mutex
		allTargets []emit.Target
		firstErr   error
	)
	var wg sync.WaitGroup
	for _, tc := range contexts {
		wg.Add(1)
		go func(tc toolchainContext) {
			defer wg.Done()
			targets, err := a.evalToolchain(ctx, tc, buildFiles)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			allTargets = append(allTargets, targets...)
		}(tc)
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	// The audit is sound only now, after every toolchain finished
	// declaring.
	if derr := a.args.VerifyAllOverridesUsed(); derr != nil {
		return renderErr(derr)
	}

	if a.config.List {
		return a.printArgList()
	}
	return a.writeManifest(allTargets)
}

// evalToolchain runs the full evaluation sequence for one toolchain:
// root-scope setup, declarations across all build files, then targets
// against the frozen scope.
func (a *App) evalToolchain(ctx context.Context, tc toolchainContext, buildFiles []string) ([]emit.Target, error) {
	logger := a.logger.With("toolchain", tc.settings.String())
	logger.Debug("Toolchain evaluation started.")

	sc := scope.NewRoot(tc.settings)
	if err := a.args.SetupRootScope(sc, tc.overrides); err != nil {
		return nil, fmt.Errorf("setting up root scope: %w", err)
	}

	parsed := make([]*loader.BuildFile, 0, len(buildFiles))
	for _, path := range buildFiles {
		f, err := a.loader.LoadBuildFile(path)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, f)
	}

	ev := loader.NewEvaluator(a.args)
	for _, f := range parsed {
		if derr := ev.DeclareFile(ctx, f, sc); derr != nil {
			return nil, renderErr(derr)
		}
	}

	// Arguments are final for this toolchain; targets only read.
	sc.Freeze()

	var targets []emit.Target
	for _, f := range parsed {
		ts, derr := ev.EvalTargets(ctx, f, sc)
		if derr != nil {
			return nil, renderErr(derr)
		}
		targets = append(targets, ts...)
	}

	logger.Debug("Toolchain evaluation finished.", "targets", len(targets))
	return targets, nil
}

// printArgList writes the resolved argument table to the output stream.
func (a *App) printArgList() error {
	for _, view := range a.args.GetAllArguments() {
		fmt.Fprintf(a.outW, "%s\n", view.Name)
		fmt.Fprintf(a.outW, "    default = %s\n", view.Default.Describe())
		if view.HasOverride {
			fmt.Fprintf(a.outW, "    override = %s\n", view.Override.Describe())
		}
	}
	return nil
}

// writeManifest emits the build manifest to the configured destination.
func (a *App) writeManifest(targets []emit.Target) error {
	manifest := emit.Build(a.args, targets)

	if a.config.OutPath == "-" {
		return manifest.Write(a.outW)
	}

	f, err := os.Create(a.config.OutPath)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer f.Close()

	if err := manifest.Write(f); err != nil {
		return err
	}
	a.logger.Info("Manifest written.", "path", a.config.OutPath, "targets", len(manifest.Targets), "args", len(manifest.Args))
	return nil
}
