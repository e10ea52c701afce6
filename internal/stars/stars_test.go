// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stars

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corpus collects lines with well-formed and malformed markup drawn from
// translation notes.
var corpus = []string{
	"",
	"No markup at all.",
	"This is **bold** text.",
	"This * is odd.",
	"This is *bold* text",
	"**Start** of text * end",
	"* list item",
	"*Note",
	"*Important** text here",
	"Say * *hello** now",
	"x **a** b **c** d **e f",
	"a** b **c** d",
	"a ** b ** c ** d",
	"**a** b**c d",
	"> *Lord* said",
	"> **Lord** said to him",
	"See rc://*/ta/man/translate/figs-metaphor for **details** here.",
	"**abcdefghijklmnopqrstuvwxyzabcdefghijklmn** end",
	"यह **शब्द** है",
	"**The LORD** said, \"**Go** now.\"",
	"***",
	"** **",
}

func TestAnalyze(t *testing.T) {
	clusters := Analyze("This is **bold** text.")
	require.Len(t, clusters, 2)

	open := clusters[0]
	assert.Equal(t, " **", open.Text)
	assert.Equal(t, 2, open.Stars)
	assert.Equal(t, 7, open.Start)
	assert.Equal(t, 10, open.End)
	assert.True(t, open.Lefty)
	assert.False(t, open.Leading)
	assert.False(t, open.Righty)
	assert.False(t, open.Floating)
	assert.False(t, open.Tight)
	assert.Equal(t, 7, open.LeftDist)
	assert.Equal(t, 4, open.RightDist)

	closing := clusters[1]
	assert.Equal(t, "** ", closing.Text)
	assert.Equal(t, 14, closing.Start)
	assert.Equal(t, 17, closing.End)
	assert.True(t, closing.Righty)
	assert.False(t, closing.Lefty)
	assert.Equal(t, 4, closing.LeftDist)
	assert.Equal(t, 5, closing.RightDist)
}

func TestAnalyzeFlags(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		index int
		want  Cluster
	}{
		{
			name: "star at line start is leading and lefty",
			line: "**Start** of text",
			want: Cluster{Text: "**", Stars: 2, Start: 0, End: 2, Leading: true, Lefty: true, RightDist: 5},
		},
		{
			name: "star after block quote is leading",
			line: "> *Lord* said",
			want: Cluster{Text: " *", Stars: 1, Start: 1, End: 3, Leading: true, Lefty: true, LeftDist: 1, RightDist: 4},
		},
		{
			name:  "spaced star is floating",
			line:  "This * is odd.",
			want:  Cluster{Text: " * ", Stars: 1, Start: 4, End: 7, Floating: true, LeftDist: 4, RightDist: 7},
			index: 0,
		},
		{
			name:  "star between letters is tight",
			line:  "**a** b**c d",
			index: 2,
			want:  Cluster{Text: "**", Stars: 2, Start: 7, End: 9, Tight: true, LeftDist: 1, RightDist: 3},
		},
		{
			name:  "star right after a spaced cluster counts as lefty",
			line:  "Say * *hello** now",
			index: 1,
			want:  Cluster{Text: "*", Stars: 1, Start: 6, End: 7, Lefty: true, Tight: true, RightDist: 5},
		},
		{
			name:  "offsets count runes",
			line:  "यह **शब्द** है",
			index: 1,
			want:  Cluster{Text: "** ", Stars: 2, Start: 9, End: 12, Righty: true, LeftDist: 4, RightDist: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clusters := Analyze(tt.line)
			require.Greater(t, len(clusters), tt.index)
			got := clusters[tt.index]
			got.byteStart, got.byteEnd = 0, 0
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeSkipsResourceLinks(t *testing.T) {
	assert.Empty(t, Analyze("See rc://*/ta/man/translate/figs-metaphor for details."))

	clusters := Analyze("See rc://*/ta/man/translate/figs-metaphor for **details** here.")
	require.Len(t, clusters, 2)
	assert.Equal(t, " **", clusters[0].Text)
}

func TestAnalyzeNoStars(t *testing.T) {
	assert.Empty(t, Analyze(""))
	assert.Empty(t, Analyze("plain text"))
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int
	}{
		{"empty line", "", 100},
		{"no markup", "No markup at all.", 100},
		{"balanced bold", "This is **bold** text.", 100},
		{"single unpaired star", "This * is odd.", 0},
		{"single-star bold", "This is *bold* text", 80},
		{"list bullet", "* list item", 90},
		{"resource link", "See rc://*/ta/man/translate/figs-metaphor for details.", 100},
		{"trailing orphan", "**Start** of text * end", 0},
		{"long span", "**abcdefghijklmnopqrst** end", 95},
		{"very long span", "**abcdefghijklmnopqrstuvwxyzabcdefghijklmn** end", 80},
		{"short span", "a **b** c", 90},
		{"unicode text", "यह **शब्द** है", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Confidence(tt.line))
		})
	}
}

func TestConfidenceRange(t *testing.T) {
	for _, line := range corpus {
		conf := Confidence(line)
		assert.GreaterOrEqual(t, conf, 0, line)
		assert.LessOrEqual(t, conf, 100, line)
	}
}

func TestFix(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"empty line", "", ""},
		{"well formed", "This is **bold** text.", "This is **bold** text."},
		{"promote paired singles", "This is *bold* text", "This is **bold** text"},
		{"remove trailing orphan", "**Start** of text * end", "**Start** of text end"},
		{"remove lone star", "This * is odd.", "This is odd."},
		{"promote leading single", "*Important** text here", "**Important** text here"},
		{"separate lone leading star", "*Note", "* Note"},
		{"merge adjacent singles", "Say * *hello** now", "Say ** hello** now"},
		{"stranded at end by spacing", "x **a** b **c** d **e f", "x **a** b **c** d e f"},
		{"stranded closer at start", "a** b **c** d", "a b **c** d"},
		{"stranded by length", "a ** b ** c ** d", "a ** b ** c d"},
		{"tight stranded keeps words apart", "**a** b**c d", "**a** b c d"},
		{"no improving repair", "> *Lord* said", "> *Lord* said"},
		{"list bullet left alone", "* list item", "* list item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fix(tt.line))
		})
	}
}

func TestFixImprovesConfidence(t *testing.T) {
	for _, line := range []string{
		"This is *bold* text",
		"**Start** of text * end",
		"*Important** text here",
	} {
		fixed := Fix(line)
		assert.Greater(t, Confidence(fixed), Confidence(line), line)
	}
}

func TestFixNeverWorsens(t *testing.T) {
	for _, line := range corpus {
		fixed := Fix(line)
		assert.GreaterOrEqual(t, Confidence(fixed), Confidence(line), line)
		assert.GreaterOrEqual(t, score(Analyze(fixed)), score(Analyze(line)), line)
	}
}

func TestFixLeavesConfidentLines(t *testing.T) {
	for _, line := range corpus {
		if Confidence(line) == 100 {
			assert.Equal(t, line, Fix(line))
		}
	}
}

func TestDeterminism(t *testing.T) {
	for _, line := range corpus {
		assert.Equal(t, Confidence(line), Confidence(line), line)
		assert.Equal(t, Fix(line), Fix(line), line)
	}
}

func TestStrandedBySpacing(t *testing.T) {
	tests := []struct {
		line        string
		first, last int
	}{
		{"x **a** b **c** d **e f", 4, 4},
		{"a** b **c** d", 0, 0},
		{"a ** b ** c ** d", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			first, last := strandedBySpacing(Analyze(tt.line))
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestStrandedByLength(t *testing.T) {
	// Removing either end leaves the same opener distance; the later wins.
	assert.Equal(t, 2, strandedByLength(Analyze("a ** b ** c ** d")))

	// Dropping the floating cluster leaves the opener right next to "e".
	assert.Equal(t, 0, strandedByLength(Analyze("a ** b c d **e** f")))
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, "This is **bold** text."))

	want := "This is **bold** text.\n" +
		"  has 2 clusters\n" +
		" **: nstars=2, lefty, pos 7:10, ldist=7, rdist=4\n" +
		"** : nstars=2, righty, pos 14:17, ldist=4, rdist=5\n" +
		"Confidence: 100\n\n"
	assert.Equal(t, want, buf.String())
}

func TestDumpWithoutClusters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, "plain text"))
	assert.Empty(t, buf.String())
	assert.NoError(t, Dump(nil, "some **bold** text"))
}
