package core

// RankCorrection rewrites the rank of one (stage, bib) result when the source
// carries a known bad value.
type RankCorrection struct {
	Name     string `koanf:"name"`
	Stage    string `koanf:"stage"`
	Bib      string `koanf:"bib"`
	FromRank string `koanf:"from_rank"`
	ToRank   string `koanf:"to_rank"`
}

// Matches reports whether the correction applies to the given result fields.
func (c RankCorrection) Matches(stage, bib, rank string) bool {
	return c.Stage == stage && c.Bib == bib && c.FromRank == rank
}

// ExitExclusion lists bibs whose exit records are never emitted.
type ExitExclusion struct {
	Name string   `koanf:"name"`
	Bibs []string `koanf:"bibs"`
}

// Rules are the named data corrections a variant applies.
type Rules struct {
	RankCorrections []RankCorrection `koanf:"rank_corrections"`
	ExitExclusions  []ExitExclusion  `koanf:"exit_exclusions"`
	ExitReasons     []string         `koanf:"exit_reasons"`
}

// CorrectRank returns the corrected rank and the rule that fired, if any.
// The first matching rule wins.
func (r Rules) CorrectRank(stage, bib, rank string) (string, *RankCorrection) {
	for i := range r.RankCorrections {
		c := &r.RankCorrections[i]
		if c.Matches(stage, bib, rank) {
			return c.ToRank, c
		}
	}
	return rank, nil
}

// ExcludesExit returns the name of the exclusion rule covering bib.
func (r Rules) ExcludesExit(bib string) (string, bool) {
	for _, ex := range r.ExitExclusions {
		for _, b := range ex.Bibs {
			if b == bib {
				return ex.Name, true
			}
		}
	}
	return "", false
}
