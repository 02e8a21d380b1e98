package ranking

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/pkg/inference"
	"librarian/pkg/schema"
)

type stubInferencer struct {
	out      string
	err      error
	calls    int
	lastUser string
}

func (s *stubInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	s.calls++
	s.lastUser = user
	return s.out, s.err
}

func (s *stubInferencer) InferWithTools(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string, tools []inference.Tool) (string, error) {
	return s.Infer(ctx, params, system, user)
}

func seedDNA() *schema.BookDNA {
	pillar := func(text, summary string) schema.DNAPillar {
		return schema.DNAPillar{FullText: text, Summary: summary}
	}
	return &schema.BookDNA{
		BookID: "vol-dune",
		Title:  "Dune",
		Genre:  "Science Fiction",
		Setting: schema.SettingPillar{
			Time: "far future", Place: "Arrakis", Vibe: "arid and feudal",
			FullText: "A desert planet ruled by feuding great houses.", Summary: "desert empire",
		},
		NarrativeEngine:  pillar("Political prophecy drives the plot forward.", "political prophecy"),
		ProseTexture:     pillar("Dense, formal prose with inner monologue.", "dense formal"),
		EmotionalProfile: pillar("Austere dread punctuated by awe.", "austere dread"),
		StructuralQuirks: pillar("Epigraphs from in-world histories open each chapter.", "epigraph chapters"),
		Theme:            pillar("The peril of charismatic leaders.", "dangerous messiahs"),
		Dealbreakers:     []string{"slow start", "dense worldbuilding"},
	}
}

func candidateListJSON(t *testing.T, titles ...string) string {
	t.Helper()
	list := schema.CandidateList{}
	for _, title := range titles {
		list.Candidates = append(list.Candidates, schema.CandidateBook{
			Title:         title,
			Author:        "Author of " + title,
			SourceSnippet: "mentioned in a best-of thread",
		})
	}
	raw, err := json.Marshal(list)
	require.NoError(t, err)
	return string(raw)
}

func TestFindCandidatesTruncatesToThree(t *testing.T) {
	inf := &stubInferencer{out: candidateListJSON(t, "Hyperion", "The Fifth Season", "Foundation", "The Dispossessed", "Ancillary Justice")}
	finder := NewCandidatesFinder(inf, nil)

	found, err := finder.FindCandidates(context.Background(), seedDNA(), []string{"theme", "setting"}, []string{"romance subplot"})
	require.NoError(t, err)
	require.Len(t, found.Candidates, 3)
	assert.Equal(t, "Hyperion", found.Candidates[0].Title)
	assert.Equal(t, "The Fifth Season", found.Candidates[1].Title)
	assert.Equal(t, "Foundation", found.Candidates[2].Title)
}

func TestFindCandidatesPromptContents(t *testing.T) {
	inf := &stubInferencer{out: candidateListJSON(t, "Hyperion")}
	finder := NewCandidatesFinder(inf, nil)

	_, err := finder.FindCandidates(context.Background(), seedDNA(), []string{"theme"}, []string{"romance subplot"})
	require.NoError(t, err)
	assert.Contains(t, inf.lastUser, `books similar to "Dune" recommendations`)
	assert.Contains(t, inf.lastUser, "The peril of charismatic leaders.")
	assert.NotContains(t, inf.lastUser, "Dense, formal prose")
	assert.Contains(t, inf.lastUser, "romance subplot")
}

func TestFindCandidatesMalformedOutput(t *testing.T) {
	inf := &stubInferencer{out: "no candidates today"}
	finder := NewCandidatesFinder(inf, nil)

	found, err := finder.FindCandidates(context.Background(), seedDNA(), []string{"theme"}, nil)
	assert.Error(t, err)
	assert.Nil(t, found)
}
