package provider

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cuesmith/cuesmith/internal/transport"
	"github.com/cuesmith/cuesmith/internal/types"
)

type barcodeRelease struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	UPC        string    `json:"barcode"`
	Label      string    `json:"label"`
	CatNo      string    `json:"catalog_number"`
	ASIN       string    `json:"asin"`
	Country    string    `json:"country"`
	Date       string    `json:"date"`
	TotalDiscs int       `json:"total_discs"`
	Tracks     []mbTrack `json:"tracks"`
}

type barcodeSearchResponse struct {
	Releases []barcodeRelease `json:"releases"`
}

// BarcodeProvider is a search-by-upc metadata source querying a
// Discogs-shaped release catalogue by barcode. It is reachable under the
// "freedb-like" config id alongside the primary and hub providers in the
// default preference list — a legacy id kept for config compatibility,
// even though the catalogue behind it is barcode-indexed rather than the
// original CDDB protocol.
type BarcodeProvider struct {
	base
	transport *transport.Transport
	baseURL   string
	timeout   time.Duration
}

func NewBarcodeProvider(tr *transport.Transport, baseURL string, timeout time.Duration) *BarcodeProvider {
	return &BarcodeProvider{
		base:      newBase(IDFreedb, CapSearchByUPC|CapYieldsReleaseData),
		transport: tr,
		baseURL:   baseURL,
		timeout:   timeout,
	}
}

func (p *BarcodeProvider) QueryByDisc(_ *types.CueSheet, _ int, _ string) (int, error) { return 0, nil }
func (p *BarcodeProvider) QueryLinked(_ Provider, _ string) (int, error)               { return 0, nil }
func (p *BarcodeProvider) SearchByArtistTitle(_, _, _ string) (int, error)             { return 0, nil }

func (p *BarcodeProvider) SearchByUPC(upc, narrowDown string) (int, error) {
	p.matches = nil
	if upc == "" {
		return 0, nil
	}

	url := fmt.Sprintf("%s/search", p.baseURL)
	params := map[string]string{"barcode": upc}
	if narrowDown != "" {
		params["q"] = narrowDown
	}

	resp, err := p.transport.Get(url, params, p.timeout)
	if err != nil {
		return 0, err
	}

	var parsed barcodeSearchResponse
	if err := json.Unmarshal(resp.Content(), &parsed); err != nil {
		return 0, &types.DecodeError{Kind: types.Malformed, Err: err}
	}

	for _, rel := range parsed.Releases {
		m := Match{
			ReleaseID:  rel.ID,
			AlbumTitle: rel.Title,
			AlbumArtist: rel.Artist,
			AlbumUPC:   rel.UPC,
			AlbumLabel: rel.Label,
			AlbumCatNo: rel.CatNo,
			AlbumASIN:  rel.ASIN,
			Country:    rel.Country,
			Date:       rel.Date,
			TotalDiscs: rel.TotalDiscs,
		}
		for _, tr := range rel.Tracks {
			m.Tracks = append(m.Tracks, TrackMatch{
				Title:    tr.Title,
				Artist:   tr.Artist,
				Composer: tr.Composer,
				ISRC:     tr.ISRC,
				Length:   tr.Length,
			})
		}
		p.matches = append(p.matches, m)
	}
	return len(p.matches), nil
}
