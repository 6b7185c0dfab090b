package filename

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuesmith/cuesmith/internal/types"
)

func ctxFor(t *testing.T, performer, title, disc string) *Context {
	t.Helper()
	cs := types.NewCueSheet()
	cs.Title = title
	cs.Performer = performer
	return &Context{CS: cs, Disc: disc}
}

func TestRenderSuppressesGroupWithEmptyVar(t *testing.T) {
	out, err := Render(`[%album artist% - ]%album%['['%disc%']']`, ctxFor(t, "Evans", "Moonbeams", ""))
	require.NoError(t, err)
	require.Equal(t, "Evans - Moonbeams", out)
}

func TestRenderKeepsGroupWhenVarPresent(t *testing.T) {
	out, err := Render(`[%album artist% - ]%album%['['%disc%']']`, ctxFor(t, "Evans", "Moonbeams", "2"))
	require.NoError(t, err)
	require.Equal(t, "Evans - Moonbeams[2]", out)
}

func TestRenderLiteralQuoteEscaping(t *testing.T) {
	out, err := Render(`'it''s a test'`, ctxFor(t, "", "", ""))
	require.NoError(t, err)
	require.Equal(t, "it's a test", out)
}

func TestRenderLiteralBypassesMetacharacters(t *testing.T) {
	out, err := Render(`'%literal%'`, ctxFor(t, "", "", ""))
	require.NoError(t, err)
	require.Equal(t, "%literal%", out)
}

func TestRenderUnknownVariableResolvesEmptyAndSuppresses(t *testing.T) {
	out, err := Render(`[%nope%]kept`, ctxFor(t, "Evans", "Moonbeams", ""))
	require.NoError(t, err)
	require.Equal(t, "kept", out)
}

func TestRenderFunctionsLowerCapsTrim(t *testing.T) {
	out, err := Render(`$lower(%album%)`, ctxFor(t, "", "MoonBeams", ""))
	require.NoError(t, err)
	require.Equal(t, "moonbeams", out)

	out, err = Render(`$caps(%album%)`, ctxFor(t, "", "moonbeams", ""))
	require.NoError(t, err)
	require.Equal(t, "MOONBEAMS", out)
}

func TestRenderSwapPrefix(t *testing.T) {
	out, err := Render(`$swap-prefix(%artist%,'The')`, ctxFor(t, "The Beatles", "", ""))
	require.NoError(t, err)
	require.Equal(t, "Beatles, The", out)
}

func TestRenderCutAtN(t *testing.T) {
	out, err := Render(`$cut-at-4(%album%)`, ctxFor(t, "", "Moonbeams", ""))
	require.NoError(t, err)
	require.Equal(t, "Moon", out)
}

func TestRenderAbbreviate(t *testing.T) {
	out, err := Render(`$abbreviate('New York City')`, ctxFor(t, "", "", ""))
	require.NoError(t, err)
	require.Equal(t, "NYC", out)
}

func TestRenderRemField(t *testing.T) {
	cs := types.NewCueSheet()
	cs.AddRem("GENRE Jazz")
	out, err := Render(`%genre%`, &Context{CS: cs})
	require.NoError(t, err)
	require.Equal(t, "Jazz", out)
}

func TestRenderUnterminatedVariableIsTemplateError(t *testing.T) {
	_, err := Render(`%album`, ctxFor(t, "", "", ""))
	require.Error(t, err)
	var te *types.TemplateError
	require.ErrorAs(t, err, &te)
}

func TestRenderUnterminatedGroupIsTemplateError(t *testing.T) {
	_, err := Render(`[%album%`, ctxFor(t, "", "", ""))
	require.Error(t, err)
	var te *types.TemplateError
	require.ErrorAs(t, err, &te)
}

func TestRenderUnmatchedClosingBracketIsTemplateError(t *testing.T) {
	_, err := Render(`%album%]`, ctxFor(t, "", "", ""))
	require.Error(t, err)
	var te *types.TemplateError
	require.ErrorAs(t, err, &te)
}

func TestRenderArtistFirstAndLastname(t *testing.T) {
	out, err := Render(`%artist first%/%artist lastname%`, ctxFor(t, "Bill Evans", "", ""))
	require.NoError(t, err)
	require.Equal(t, "Bill/Evans", out)
}
