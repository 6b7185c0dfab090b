package types

// RemFieldKind names a wish-list REM field the Aggregator can materialise
// into the merged CueSheet's Rems slice.
type RemFieldKind uint8

const (
	RemDBINFO RemFieldKind = iota
	RemGENRE
	RemDATE
	RemCOUNTRY
	RemUPC
	RemLABEL
	RemCATNO
	RemDISC
	RemDISCS
	// RemASIN supplements the distilled RemFieldKind set: the config store
	// already exposes Rems.ASIN and the primary and barcode providers
	// supply it (Match.AlbumASIN), but the original enum in §3 omitted it.
	RemASIN
)

var remTagNames = map[RemFieldKind]string{
	RemDBINFO:  "DBINFO",
	RemGENRE:   "GENRE",
	RemDATE:    "DATE",
	RemCOUNTRY: "COUNTRY",
	RemUPC:     "UPC",
	RemLABEL:   "LABEL",
	RemCATNO:   "CATNO",
	RemDISC:    "DISC",
	RemDISCS:   "DISCS",
	RemASIN:    "ASIN",
}

// Tag returns the uppercase tag word written after "REM " for this kind.
func (k RemFieldKind) Tag() string { return remTagNames[k] }
