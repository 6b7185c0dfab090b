// Package aggregator implements the Aggregator (CueSheetBuilder, spec
// §4.5): a six-phase walk over a prioritised provider list that resolves
// cross-provider linkage and merges matched releases into one CueSheet.
package aggregator

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	pkgerrors "github.com/pkg/errors"

	"github.com/cuesmith/cuesmith/internal/provider"
	"github.com/cuesmith/cuesmith/internal/types"
)

// MergePolicy controls how many matched providers contribute to the
// final cue-sheet (GLOSSARY "Merge policy").
type MergePolicy uint8

const (
	PickOne MergePolicy = iota
	CombineAny
	CombineUPCBound
)

// Options are the Aggregator's pre-start inputs. Mutating them via the
// Set* methods after Run is called fails with AlreadyRunningError.
type Options struct {
	Providers               []provider.Provider
	RemWishList             []types.RemFieldKind
	Policy                  MergePolicy
	RequireUPCMatch         bool
	UPC                     string
	ContinueOnProviderError bool
}

// CueSheetBuilder is the Aggregator. One instance serves one ripping
// session; it is not reusable after Run returns.
type CueSheetBuilder struct {
	mu      sync.Mutex
	started bool

	prelim        *types.CueSheet
	lengthSectors int
	opts          Options

	canceled atomic.Bool

	result       *types.CueSheet
	foundRelease bool
	frontCover   []byte
	backCover    []byte
	faults       map[provider.ProviderId]error
}

// NewCueSheetBuilder constructs an Aggregator over prelim, the Source's
// preliminary cue-sheet, and the disc length in sectors.
func NewCueSheetBuilder(prelim *types.CueSheet, lengthSectors int, opts Options) *CueSheetBuilder {
	return &CueSheetBuilder{
		prelim:        prelim,
		lengthSectors: lengthSectors,
		opts:          opts,
		faults:        make(map[provider.ProviderId]error),
	}
}

// SetUPC mutates the caller-supplied UPC; fails once Run has started.
func (b *CueSheetBuilder) SetUPC(upc string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return &types.AlreadyRunningError{Msg: "cannot set UPC after start"}
	}
	b.opts.UPC = upc
	return nil
}

// SetRequireUPCMatch mutates the strict-UPC flag; fails once started.
func (b *CueSheetBuilder) SetRequireUPCMatch(require bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return &types.AlreadyRunningError{Msg: "cannot set require-upc-match after start"}
	}
	b.opts.RequireUPCMatch = require
	return nil
}

// Cancel requests cooperative cancellation; checked between providers.
func (b *CueSheetBuilder) Cancel() { b.canceled.Store(true) }

// Canceled reports whether the walk ended because of a Cancel call.
func (b *CueSheetBuilder) Canceled() bool { return b.canceled.Load() }

// FoundRelease reports whether at least one provider contributed a
// merged record.
func (b *CueSheetBuilder) FoundRelease() bool { return b.foundRelease }

// GetCueSheet returns the merged cue-sheet. Valid only after Run returns.
func (b *CueSheetBuilder) GetCueSheet() *types.CueSheet { return b.result }

func (b *CueSheetBuilder) FoundFrontCover() bool { return len(b.frontCover) > 0 }
func (b *CueSheetBuilder) GetFrontCover() []byte { return b.frontCover }
func (b *CueSheetBuilder) FoundBackCover() bool  { return len(b.backCover) > 0 }
func (b *CueSheetBuilder) GetBackCover() []byte  { return b.backCover }

// Faults returns the per-provider fault ledger accumulated during the
// walk.
func (b *CueSheetBuilder) Faults() map[provider.ProviderId]error { return b.faults }

// Run executes the six-phase walk. It is not safe to call
// concurrently with itself or with the Set* methods.
func (b *CueSheetBuilder) Run() error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return &types.AlreadyRunningError{Msg: "aggregator already running"}
	}
	b.started = true
	b.mu.Unlock()

	cs := cloneCueSheet(b.prelim)
	var primary provider.Provider

	// Phase 1 — disc-direct query.
	for _, p := range b.opts.Providers {
		if b.canceled.Load() {
			break
		}
		if p.Capabilities().Has(provider.CapQueryByDisc) {
			if _, err := p.QueryByDisc(cs, b.lengthSectors, b.opts.UPC); err != nil {
				if !b.recordFault(p, err) {
					return err
				}
			}
		} else {
			p.Clear()
		}
		if p.Kind() == provider.IDPrimary {
			primary = p
		}
	}

	// Phase 2 — link via primary.
	if primary != nil {
		for _, p := range b.opts.Providers {
			if b.canceled.Load() {
				break
			}
			if p.NMatches() > 0 || !p.Capabilities().Has(provider.CapLinkedFromPrimary) {
				continue
			}
			if _, err := p.QueryLinked(primary, b.opts.UPC); err != nil {
				if !b.recordFault(p, err) {
					return err
				}
			}
		}
	}

	// Phase 3 — UPC resolution.
	upc := b.opts.UPC
	chosenRecID := make(map[provider.ProviderId]int, len(b.opts.Providers))
	for _, p := range b.opts.Providers {
		chosenRecID[p.Kind()] = -1
	}

	if upc == "" && !b.opts.RequireUPCMatch {
	scan:
		for _, p := range b.opts.Providers {
			for i := 0; i < p.NMatches(); i++ {
				m, err := p.Match(i)
				if err != nil {
					continue
				}
				if m.AlbumUPC != "" {
					upc = m.AlbumUPC
					chosenRecID[p.Kind()] = i
					break scan
				}
			}
		}
	}

	for _, p := range b.opts.Providers {
		if b.canceled.Load() {
			break
		}
		if upc == "" {
			continue
		}
		found := false
		for i := 0; i < p.NMatches(); i++ {
			m, err := p.Match(i)
			if err != nil {
				continue
			}
			if m.AlbumUPC == upc {
				chosenRecID[p.Kind()] = i
				found = true
				break
			}
		}
		if !found && p.Capabilities().Has(provider.CapSearchByUPC) {
			n, err := p.SearchByUPC(upc, "")
			if err != nil {
				if !b.recordFault(p, err) {
					return err
				}
				continue
			}
			if n > 0 {
				chosenRecID[p.Kind()] = 0
			}
		}
	}

	// Phase 4 — REM field slot reservation.
	cs.Rems = make([]string, len(b.opts.RemWishList))

	// Phase 5 — merge.
	matched := false
	anyRecID := upc == "" || b.opts.Policy != CombineUPCBound
	stop := func() bool { return matched && b.opts.Policy == PickOne }

	if b.opts.UPC != "" {
		for _, p := range b.opts.Providers {
			if stop() || b.canceled.Load() {
				break
			}
			idx := chosenRecID[p.Kind()]
			if idx < 0 {
				continue
			}
			m, err := p.Match(idx)
			if err != nil {
				continue
			}
			b.applyMerge(cs, m)
			matched = true
		}
	}

	if !stop() && (!b.opts.RequireUPCMatch || b.opts.UPC == "") {
		for _, p := range b.opts.Providers {
			if stop() || b.canceled.Load() {
				break
			}
			if p.NMatches() == 0 {
				continue
			}
			idx := chosenRecID[p.Kind()]
			switch {
			case idx >= 0:
				// already merged in the UPC-matched pass above if the
				// caller supplied a UPC; re-merge here only when that
				// pass did not run.
				if b.opts.UPC != "" {
					continue
				}
			case anyRecID:
				idx = 0
			default:
				continue
			}
			m, err := p.Match(idx)
			if err != nil {
				continue
			}
			b.applyMerge(cs, m)
			matched = true
		}
	}

	b.foundRelease = matched

	// Phase 6 — compact REM.
	cs.CompactRems()

	b.result = cs
	return nil
}

// applyMerge implements the field-wise merge rule: fill-if-empty for
// titles, pair-atomic for performer/songwriter, REM materialisation for
// unfilled wish-list slots, first-non-empty wins for cover art.
func (b *CueSheetBuilder) applyMerge(cs *types.CueSheet, m *provider.Match) {
	if cs.Performer == "" && cs.Songwriter == "" {
		cs.Performer = m.AlbumArtist
		cs.Songwriter = m.AlbumComposer
	}
	if cs.Title == "" {
		cs.Title = m.AlbumTitle
	}
	for i, t := range cs.Tracks {
		if i >= len(m.Tracks) {
			break
		}
		tm := m.Tracks[i]
		if t.Title == "" {
			t.Title = tm.Title
		}
		if t.Performer == "" && t.Songwriter == "" {
			t.Performer = tm.Artist
			t.Songwriter = tm.Composer
		}
	}
	for idx, kind := range b.opts.RemWishList {
		if cs.Rems[idx] != "" {
			continue
		}
		val := remValue(kind, m)
		if val == "" {
			continue
		}
		cs.Rems[idx] = kind.Tag() + " " + val
	}
	if len(b.frontCover) == 0 && len(m.FrontBytes) > 0 {
		b.frontCover = m.FrontBytes
	}
	if len(b.backCover) == 0 && len(m.BackBytes) > 0 {
		b.backCover = m.BackBytes
	}
}

// remValue extracts the textual value to materialise for kind, applying
// the DISC/DISCS "only for total_discs>1" restriction.
func remValue(kind types.RemFieldKind, m *provider.Match) string {
	switch kind {
	case types.RemGENRE:
		return m.Genre
	case types.RemDATE:
		return m.Date
	case types.RemCOUNTRY:
		return m.Country
	case types.RemUPC:
		return m.AlbumUPC
	case types.RemLABEL:
		return m.AlbumLabel
	case types.RemCATNO:
		return m.AlbumCatNo
	case types.RemASIN:
		return m.AlbumASIN
	case types.RemDISC:
		if m.TotalDiscs > 1 && m.DiscNumber > 0 {
			return strconv.Itoa(m.DiscNumber)
		}
		return ""
	case types.RemDISCS:
		if m.TotalDiscs > 1 {
			return strconv.Itoa(m.TotalDiscs)
		}
		return ""
	case types.RemDBINFO:
		if m.ReleaseID == "" {
			return ""
		}
		return m.ReleaseID
	default:
		return ""
	}
}

// recordFault wraps err with provider context into the fault ledger and
// reports whether the walk should proceed. TransportError and
// DecodeError are always provider-scoped; any other error
// aborts the walk unless ContinueOnProviderError is set.
func (b *CueSheetBuilder) recordFault(p provider.Provider, err error) bool {
	b.faults[p.Kind()] = pkgerrors.Wrapf(err, "provider %s", p.Kind())

	var te *types.TransportError
	var de *types.DecodeError
	if errors.As(err, &te) || errors.As(err, &de) {
		p.Clear()
		return true
	}
	if b.opts.ContinueOnProviderError {
		p.Clear()
		return true
	}
	return false
}

func cloneCueSheet(src *types.CueSheet) *types.CueSheet {
	cs := types.NewCueSheet()
	cs.Catalog = src.Catalog
	cs.CDTextPath = src.CDTextPath
	cs.FileName = src.FileName
	cs.FileType = src.FileType
	cs.Performer = src.Performer
	cs.Songwriter = src.Songwriter
	cs.Title = src.Title
	cs.Rems = append([]string(nil), src.Rems...)
	for _, t := range src.Tracks {
		nt := *t
		nt.Indexes = append([]types.Index(nil), t.Indexes...)
		nt.Rems = append([]string(nil), t.Rems...)
		cs.Tracks = append(cs.Tracks, &nt)
	}
	return cs
}
