package provider

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cuesmith/cuesmith/internal/transport"
	"github.com/cuesmith/cuesmith/internal/types"
)

// ImagesProvider is a linked-from-primary, yields-cover-images source: it
// never matches a disc or a UPC directly, only by following the primary
// provider's relation URLs.
type ImagesProvider struct {
	base
	transport *transport.Transport
	timeout   time.Duration
}

func NewImagesProvider(tr *transport.Transport, timeout time.Duration) *ImagesProvider {
	return &ImagesProvider{
		base:      newBase(IDImages, CapLinkedFromPrimary|CapYieldsCoverImages),
		transport: tr,
		timeout:   timeout,
	}
}

func (p *ImagesProvider) QueryByDisc(_ *types.CueSheet, _ int, _ string) (int, error) { return 0, nil }
func (p *ImagesProvider) SearchByUPC(_, _ string) (int, error)                        { return 0, nil }
func (p *ImagesProvider) SearchByArtistTitle(_, _, _ string) (int, error)             { return 0, nil }

// relationKindFront/Back are the relation vocabulary entries this
// provider looks for on a primary-provider Match's relation URLs.
const (
	relationKindFront = "cover-art-front"
	relationKindBack  = "cover-art-back"
)

func (p *ImagesProvider) QueryLinked(primary Provider, _ string) (int, error) {
	p.matches = nil
	n := primary.NMatches()
	for i := 0; i < n; i++ {
		pm, err := primary.Match(i)
		if err != nil {
			continue
		}
		frontURL, hasFront := pm.Relations[relationKindFront]
		backURL, hasBack := pm.Relations[relationKindBack]
		if !hasFront && !hasBack {
			continue
		}

		m := Match{
			ReleaseID: pm.ReleaseID,
			HasFront:  hasFront,
			HasBack:   hasBack,
			FrontURL:  frontURL,
			BackURL:   backURL,
		}

		// Front and back are independent network calls; fetch them
		// concurrently rather than serialising two round trips.
		var g errgroup.Group
		if hasFront {
			g.Go(func() error {
				m.FrontBytes = p.fetch(frontURL)
				return nil
			})
		}
		if hasBack {
			g.Go(func() error {
				m.BackBytes = p.fetch(backURL)
				return nil
			})
		}
		_ = g.Wait()

		p.matches = append(p.matches, m)
	}
	return len(p.matches), nil
}

// fetch downloads the image at url sized to the preferred bucket,
// returning nil on any transport failure — callers treat a missing
// image as "not found" rather than aborting the walk.
func (p *ImagesProvider) fetch(url string) []byte {
	sized := fmt.Sprintf("%s?size=%d", url, imageSizePixels(p.prefSize))
	resp, err := p.transport.Get(sized, nil, p.timeout)
	if err != nil {
		return nil
	}
	return resp.Content()
}

func imageSizePixels(s ImageSize) int {
	switch s {
	case ImageSmall:
		return 75
	case ImageMedium:
		return 160
	case ImageLarge:
		return 252
	default:
		return 500
	}
}
