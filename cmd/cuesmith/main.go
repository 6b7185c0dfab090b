// Command cuesmith wires the Source, RipEngine, Sinks, Aggregator and
// filename formatter together into a single end-to-end session. Invoking
// the rip from a real CLI, parsing flags, and loading configuration from
// a named path are out of scope for the core this command wires; this is
// a thin demonstration driver, not a user-facing tool.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	lastfm_go "github.com/shkh/lastfm-go"

	"github.com/cuesmith/cuesmith/internal/aggregator"
	"github.com/cuesmith/cuesmith/internal/cache"
	"github.com/cuesmith/cuesmith/internal/config"
	"github.com/cuesmith/cuesmith/internal/filename"
	"github.com/cuesmith/cuesmith/internal/logging"
	"github.com/cuesmith/cuesmith/internal/provider"
	"github.com/cuesmith/cuesmith/internal/rip"
	"github.com/cuesmith/cuesmith/internal/sink"
	"github.com/cuesmith/cuesmith/internal/source"
	"github.com/cuesmith/cuesmith/internal/transport"
	"github.com/cuesmith/cuesmith/internal/types"
)

func main() {
	logging.Init(config.DefaultLogDir())

	cfg, err := config.Load(config.DefaultConfigFile())
	if err != nil {
		slog.Error("loading configuration", logging.Err(err))
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("session failed", logging.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	switch err.(type) {
	case *types.DeviceError:
		return 1
	default:
		return 2
	}
}

// demoTOC is the table of contents a real driver would derive from a
// libcue-style disc read; here it stands in for the optical device this
// command has no access to (internal/source.FixtureSource, DESIGN.md).
var demoTOC = []source.TOCEntry{
	{Number: 1, StartSector: 0, PregapSectors: 150},
	{Number: 2, StartSector: 10000},
}

func run(cfg *config.Config) error {
	transport.Init(time.Duration(cfg.Providers.TimeoutSeconds) * time.Second)
	defer transport.Shutdown()

	src := source.NewFixtureSource("/dev/cdrom", demoTOC, 20000, "", demoSector)
	src.SetSkipFirstTrackPreGap(cfg.General.SkipTrackOnePreGap)

	prelim, err := src.BuildCueSheet()
	if err != nil {
		return fmt.Errorf("building preliminary cue sheet: %w", err)
	}

	providerCache, err := cache.Open(cfg.DefaultCacheDir(), cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("opening provider cache: %w", err)
	}
	defer providerCache.Close()

	result, err := runAggregation(cfg, prelim, src.Length(source.UnitSectors), providerCache)
	if err != nil {
		return fmt.Errorf("aggregator: %w", err)
	}

	if cfg.General.SkipUnknownDisc && !result.FoundRelease {
		slog.Info("no release found, skipping session per skip_unknown_disc")
		return nil
	}

	cs := result.CueSheet
	outPath, err := outputPath(cfg, cs)
	if err != nil {
		return fmt.Errorf("formatting output filename: %w", err)
	}

	s := sink.NewLosslessSink(outPath)
	if err := runRip(src, s, cs, result.FrontCover); err != nil {
		return err
	}

	slog.Info("session complete", slog.String("output", outPath))
	return nil
}

func runRip(src *source.FixtureSource, s sink.Sink, cs *types.CueSheet, frontCover []byte) error {
	engine := rip.NewRipEngine(src, []sink.Sink{s})
	engine.Start()

	// The merged cue sheet must be embedded before the postamble; there
	// is no ordering guarantee between the Aggregator and the RipEngine
	// otherwise, so the caller locks in cue-sheet/cover-art
	// writes here, ahead of streaming completion.
	sign := sink.Sign(1)
	if s.TryLock(sign) {
		if s.CuesheetEmbeddable() {
			_ = s.SetCueSheet(cs, sign)
		}
		if lossless, ok := s.(*sink.LosslessSink); ok && len(frontCover) > 0 {
			_ = lossless.SetCoverArt(frontCover, "image/jpeg", sign)
		}
		s.Unlock(sign)
	}

	if err := engine.Join(); err != nil {
		return fmt.Errorf("rip engine: %w", err)
	}
	if engine.Canceled() {
		slog.Info("rip canceled")
	}
	return nil
}

// sessionResult is the cached unit for runAggregation: the merged cue
// sheet plus any cover art bytes, keyed by the disc's freedb-style id so
// a repeat rip of the same disc skips every provider round-trip within
// the cache TTL.
type sessionResult struct {
	FoundRelease bool
	CueSheet     *types.CueSheet
	FrontCover   []byte
	BackCover    []byte
}

func runAggregation(cfg *config.Config, prelim *types.CueSheet, lengthSectors int, c *cache.ProviderCache) (*sessionResult, error) {
	discID := provider.FreedbDiscID(prelim, lengthSectors)

	payload, err := c.Fetch("session", discID, func() ([]byte, error) {
		providers := buildProviders(cfg)
		builder := aggregator.NewCueSheetBuilder(prelim, lengthSectors, aggregator.Options{
			Providers:               providers,
			RemWishList:             remWishList(cfg),
			Policy:                  aggregator.CombineAny,
			ContinueOnProviderError: cfg.General.ContinueOnProviderError,
		})
		if err := builder.Run(); err != nil {
			return nil, err
		}
		return json.Marshal(sessionResult{
			FoundRelease: builder.FoundRelease(),
			CueSheet:     builder.GetCueSheet(),
			FrontCover:   builder.GetFrontCover(),
			BackCover:    builder.GetBackCover(),
		})
	})
	if err != nil {
		return nil, err
	}

	var result sessionResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decoding cached session result: %w", err)
	}
	return &result, nil
}

func buildProviders(cfg *config.Config) []provider.Provider {
	tr := transport.Init(0)
	timeout := time.Duration(cfg.Providers.TimeoutSeconds) * time.Second

	var providers []provider.Provider
	for _, id := range cfg.General.DatabasePreferenceList {
		switch id {
		case config.ProviderPrimary:
			providers = append(providers, provider.NewPrimaryProvider(tr, "https://musicbrainz.example", timeout))
		case config.ProviderFreedb:
			providers = append(providers, provider.NewBarcodeProvider(tr, "https://discogs.example", timeout))
		case config.ProviderImages:
			providers = append(providers, provider.NewImagesProvider(tr, timeout))
		case config.ProviderHub:
			if cfg.Providers.LastFMAPIKey == "" || cfg.Providers.LastFMAPISecret == "" {
				slog.Warn("skipping hub provider: no last.fm credentials configured")
				continue
			}
			api := lastfm_go.New(cfg.Providers.LastFMAPIKey, cfg.Providers.LastFMAPISecret)
			providers = append(providers, provider.NewHubProvider(api))
		}
	}
	return providers
}

func remWishList(cfg *config.Config) []types.RemFieldKind {
	var wish []types.RemFieldKind
	if cfg.Rems.DBINFO {
		wish = append(wish, types.RemDBINFO)
	}
	if cfg.Rems.DATE {
		wish = append(wish, types.RemDATE)
	}
	if cfg.Rems.LABEL {
		wish = append(wish, types.RemLABEL)
	}
	if cfg.Rems.COUNTRY {
		wish = append(wish, types.RemCOUNTRY)
	}
	if cfg.Rems.UPC {
		wish = append(wish, types.RemUPC)
	}
	if cfg.Rems.ASIN {
		wish = append(wish, types.RemASIN)
	}
	return wish
}

func outputPath(cfg *config.Config, cs *types.CueSheet) (string, error) {
	name, err := filename.Render(cfg.Output.Template, &filename.Context{CS: cs})
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg.Output.Dir, name+".flac"), nil
}

func demoSector(i int) []byte {
	b := make([]byte, source.SectorBytes)
	for j := range b {
		b[j] = byte((i + j) & 0xff)
	}
	return b
}
