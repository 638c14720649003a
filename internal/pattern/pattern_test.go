package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spherical-ai/scribe/internal/domain"
)

func TestExpand_PlaceholderPattern_SubstitutesEverywhere(t *testing.T) {
	assert.Equal(t, "page-3.txt", Expand("page-{}.txt", "3", false))
	assert.Equal(t, "a2-b2.txt", Expand("a{}-b{}.txt", "2", false))
	// the placeholder branch wins even for a single flat item
	assert.Equal(t, "page-1.txt", Expand("page-{}.txt", "1", true))
}

func TestExpand_PlainPattern_InsertsTokenBeforeExtension(t *testing.T) {
	assert.Equal(t, "page-3.txt", Expand("page.txt", "3", false))
	assert.Equal(t, "out/report-cover.json", Expand("out/report.json", "cover", false))
	// no extension: the token is appended
	assert.Equal(t, "out-7", Expand("out", "7", false))
}

func TestExpand_SingleFlatJob_ReturnsPatternUnchanged(t *testing.T) {
	assert.Equal(t, "out.txt", Expand("out.txt", "3", true))
	assert.Equal(t, "out.txt", Expand("out.txt", "anything", true))
}

func TestNormalize_AgreesWithExpandBranching(t *testing.T) {
	assert.Equal(t, "page-{}.txt", Normalize("page-{}.txt", false))
	assert.Equal(t, "out-{}.txt", Normalize("out.txt", false))
	assert.Equal(t, "out.txt", Normalize("out.txt", true))

	// normalizing then expanding equals expanding directly, for both branches
	for _, pat := range []string{"page-{}.txt", "out.txt", "noext"} {
		for _, singleFlat := range []bool{true, false} {
			assert.Equal(t,
				Expand(pat, "5", singleFlat),
				Expand(Normalize(pat, singleFlat), "5", true),
				"pattern %q singleFlat %v", pat, singleFlat)
		}
	}
}

func TestToken_LoneDocument_UsesBarePageNumber(t *testing.T) {
	doc := domain.SourceItem{Path: "report.pdf", Kind: domain.KindDocument}
	got := Token(doc, 4, Counts{MultiPage: 1})
	assert.Equal(t, "4", got)
}

func TestToken_DocumentAmongOthers_QualifiesWithBaseName(t *testing.T) {
	doc := domain.SourceItem{Path: "docs/report.pdf", Kind: domain.KindDocument}

	// a second multi-page item forces qualification
	assert.Equal(t, "report-4", Token(doc, 4, Counts{MultiPage: 2}))
	// so does coexisting with a single-page item
	assert.Equal(t, "report-4", Token(doc, 4, Counts{MultiPage: 1, SinglePage: 1}))
}

func TestToken_ImageAndAudio_UseBaseFileName(t *testing.T) {
	img := domain.SourceItem{Path: "/tmp/shots/scan.png", Kind: domain.KindImage}
	aud := domain.SourceItem{Path: "talks/keynote.mp3", Kind: domain.KindAudio}

	assert.Equal(t, "scan", Token(img, 1, Counts{SinglePage: 2}))
	assert.Equal(t, "keynote", Token(aud, 1, Counts{MultiPage: 1, SinglePage: 1}))
}

func TestCountItems_TalliesByPageStructure(t *testing.T) {
	items := []domain.SourceItem{
		{Path: "a.pdf", Kind: domain.KindDocument},
		{Path: "b.png", Kind: domain.KindImage},
		{Path: "c.mp3", Kind: domain.KindAudio},
		{Path: "d.pdf", Kind: domain.KindDocument},
	}
	c := CountItems(items)
	assert.Equal(t, Counts{MultiPage: 2, SinglePage: 2}, c)
}
