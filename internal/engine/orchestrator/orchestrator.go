// Package orchestrator turns contract sources into loaded programs, compiling
// only when the compilation cache has no valid artifact.
package orchestrator

import (
	"context"
	"errors"
	"path/filepath"

	"go.trai.ch/foundry/internal/core/domain"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNoCache makes every call recompile, ignoring existing cache records.
// Records are still written.
func WithNoCache(noCache bool) Option {
	return func(o *Orchestrator) {
		o.noCache = noCache
	}
}

// Orchestrator implements compile-and-list-entrypoints on top of the cache.
type Orchestrator struct {
	resolver ports.CachePathResolver
	store    ports.CacheStore
	hasher   ports.Hasher
	verifier ports.Verifier
	compiler ports.Compiler
	loader   ports.ProgramLoader
	logger   ports.Logger
	tracer   ports.Tracer

	noCache bool
	group   singleflight.Group
}

// New creates an Orchestrator.
func New(
	resolver ports.CachePathResolver,
	store ports.CacheStore,
	hasher ports.Hasher,
	verifier ports.Verifier,
	compiler ports.Compiler,
	loader ports.ProgramLoader,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		resolver: resolver,
		store:    store,
		hasher:   hasher,
		verifier: verifier,
		compiler: compiler,
		loader:   loader,
		logger:   logger,
		tracer:   tracer,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CompileAndListEntrypoints returns the program compiled from contractPath and
// the names of its test entrypoints.
//
// A cache record whose hash matches the contract's current content digest,
// and whose artifact still exists, skips compilation. Missing, malformed and
// stale records are replaced after a fresh compile. Concurrent calls for the
// same contract share one compilation.
func (o *Orchestrator) CompileAndListEntrypoints(ctx context.Context, contractPath string) (*domain.CompiledContract, error) {
	v, err, _ := o.group.Do(filepath.Clean(contractPath), func() (any, error) {
		return o.compileAndList(ctx, contractPath)
	})
	if err != nil {
		return nil, err
	}
	compiled := *v.(*domain.CompiledContract)
	return &compiled, nil
}

func (o *Orchestrator) compileAndList(ctx context.Context, contractPath string) (*domain.CompiledContract, error) {
	ctx, span := o.tracer.Start(ctx, "compile")
	defer span.End()
	span.SetAttribute("contract", contractPath)

	compiled, err := o.resolve(ctx, contractPath)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("cached", compiled.Cached)
	span.SetAttribute("entrypoints", len(compiled.Entrypoints))
	return compiled, nil
}

func (o *Orchestrator) resolve(ctx context.Context, contractPath string) (*domain.CompiledContract, error) {
	// 1. Locate cache record and artifact
	cachePath, err := o.resolver.Resolve(contractPath)
	if err != nil {
		return nil, domain.NewTestCommandError(domain.TestErrorInvalidContract, contractPath, err)
	}
	artifactPath, err := o.resolver.CompiledPath(contractPath)
	if err != nil {
		return nil, domain.NewTestCommandError(domain.TestErrorInvalidContract, contractPath, err)
	}

	// 2. Digest current content
	digest, err := o.hasher.ComputeContentHash(contractPath)
	if err != nil {
		return nil, domain.NewTestCommandError(domain.TestErrorCompile, contractPath, err)
	}

	// 3. Try the cache
	if !o.noCache {
		compiled, ok, err := o.fromCache(contractPath, cachePath, artifactPath, digest)
		if err != nil {
			return nil, err
		}
		if ok {
			return compiled, nil
		}
	}

	// 4. Compile (Cache Miss)
	if err := o.compiler.Compile(ctx, contractPath, artifactPath); err != nil {
		kind := domain.TestErrorCompile
		if ctx.Err() != nil {
			kind = domain.TestErrorAborted
		}
		return nil, domain.NewTestCommandError(kind, contractPath, err)
	}

	// 5. Update cache (best effort)
	record := domain.CacheRecord{
		ContractPath:         contractPath,
		CompiledContractPath: artifactPath,
		Hash:                 digest,
	}
	if err := o.store.Write(cachePath, record); err != nil {
		o.logger.Warn(zerr.With(zerr.Wrap(err, "failed to update cache record"), "contract", contractPath).Error())
	}

	// 6. Load
	program, err := o.loader.Load(artifactPath)
	if err != nil {
		return nil, domain.NewTestCommandError(domain.TestErrorProgramParse, contractPath, err)
	}

	return &domain.CompiledContract{
		ContractPath: contractPath,
		ArtifactPath: artifactPath,
		Program:      program,
		Entrypoints:  o.compiler.ListEntrypoints(program),
	}, nil
}

// fromCache returns the cached program when the record at cachePath is valid for digest.
// Records written for a same-named contract elsewhere point at another artifact and are misses.
func (o *Orchestrator) fromCache(contractPath, cachePath, artifactPath, digest string) (*domain.CompiledContract, bool, error) {
	record, err := o.store.Read(cachePath)
	if err != nil {
		var cacheErr *domain.CacheError
		switch {
		case errors.As(err, &cacheErr) && cacheErr.Kind == domain.CacheErrorFileNotFound:
		case errors.As(err, &cacheErr) && !cacheErr.Recoverable():
			return nil, false, domain.NewTestCommandError(domain.TestErrorInvalidContract, contractPath, err)
		default:
			o.logger.Warn(zerr.With(zerr.Wrap(err, "ignoring cache record"), "contract", contractPath).Error())
		}
		return nil, false, nil
	}

	if !record.Matches(digest) || record.CompiledContractPath != artifactPath {
		return nil, false, nil
	}

	exists, err := o.verifier.Exists(artifactPath)
	if err != nil || !exists {
		return nil, false, nil
	}

	program, err := o.loader.Load(artifactPath)
	if err != nil {
		o.logger.Warn(zerr.With(zerr.Wrap(err, "ignoring cached artifact"), "contract", contractPath).Error())
		return nil, false, nil
	}

	return &domain.CompiledContract{
		ContractPath: contractPath,
		ArtifactPath: artifactPath,
		Program:      program,
		Entrypoints:  o.compiler.ListEntrypoints(program),
		Cached:       true,
	}, true, nil
}
