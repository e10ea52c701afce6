// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stars

// Scoring constants. They are tuned against real translation notes and are
// kept exactly as-is.
const (
	// FixThreshold is the confidence at or above which Fix leaves a line alone.
	FixThreshold = 90

	// maxSpanLength is the longest bold span that draws no penalty.
	maxSpanLength = 15
	// maxSpanPenalty caps the long-span penalty.
	maxSpanPenalty = 20
	// minSpanLength is the shortest bold span that draws no penalty.
	minSpanLength = 2
	// shortSpanPenalty applies when the longest span is under minSpanLength.
	shortSpanPenalty = 10

	oddSinglesPenalty  = 40
	evenSinglesPenalty = 20

	// wrongSideWeight counts an opener that looks like a closer, or the
	// reverse. looseWeight counts a floating or tight delimiter.
	wrongSideWeight = 4
	looseWeight     = 1
	pairingPenalty  = 5
)

// Confidence returns a number from 0 to 100 estimating how likely the bold
// markup in line is well formed. A line without asterisks scores 100.
func Confidence(line string) int {
	return clamp(score(Analyze(line)))
}

func clamp(conf int) int {
	if conf < 0 {
		return 0
	}
	return conf
}

// score is the unclamped confidence of an analyzed line.
func score(clusters []Cluster) int {
	n := len(clusters)
	if n == 0 {
		return 100
	}

	conf := 100
	singles := countStars(clusters, 1)
	first := clusters[0]

	skip := 0
	if first.Stars == 1 && first.Leading && (singles%2 == 1 || !first.Lefty) {
		skip = 1
	}
	if (n+skip)%2 == 1 {
		conf = 0
	}

	if singles > 0 && (first.Stars != 1 || !first.Leading || first.Lefty) {
		if singles%2 == 1 {
			conf -= oddSinglesPenalty
		} else {
			conf -= evenSinglesPenalty
		}
	}

	longest := maxBoldLength(clusters[skip:])
	if longest > maxSpanLength {
		conf -= min(maxSpanPenalty, longest-maxSpanLength)
	} else if longest < minSpanLength {
		conf -= shortSpanPenalty
	}

	conf -= pairingPenalty * badPairing(clusters[skip:])
	return conf
}

// badPairing weighs each (opener, closer) pair by how poorly the clusters
// are oriented for their role.
func badPairing(clusters []Cluster) int {
	n := 0
	for i := 0; i+1 < len(clusters); i += 2 {
		opener, closer := clusters[i], clusters[i+1]
		switch {
		case opener.Righty:
			n += wrongSideWeight
		case opener.Floating || opener.Tight:
			n += looseWeight
		}
		switch {
		case closer.Lefty:
			n += wrongSideWeight
		case closer.Floating || closer.Tight:
			n += looseWeight
		}
	}
	return n
}

// maxBoldLength returns the longest gap between the clusters of a pair.
func maxBoldLength(clusters []Cluster) int {
	longest := 0
	for i := 0; i+1 < len(clusters); i += 2 {
		if span := clusters[i+1].Start - clusters[i].End; span > longest {
			longest = span
		}
	}
	return longest
}
