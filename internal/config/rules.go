package config

import (
	"fmt"

	"github.com/JonMunkholm/racesql/internal/core"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadRules reads a YAML rules file. The result replaces a variant's
// built-in rules wholesale; keys absent from the file leave that rule kind
// empty.
//
//	rank_corrections:
//	  - name: stage13-bib23-rank-collision
//	    stage: "13"
//	    bib: "23"
//	    from_rank: "108"
//	    to_rank: "109"
//	exit_exclusions:
//	  - name: excluded-exit-bibs
//	    bibs: ["64", "154"]
//	exit_reasons: [withdrawal, DNS]
func LoadRules(path string) (core.Rules, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return core.Rules{}, fmt.Errorf("load rules file %s: %w", path, err)
	}

	var rules core.Rules
	if err := k.UnmarshalWithConf("", &rules, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return core.Rules{}, fmt.Errorf("decode rules file %s: %w", path, err)
	}

	for i, c := range rules.RankCorrections {
		if c.Stage == "" || c.Bib == "" || c.FromRank == "" || c.ToRank == "" {
			return core.Rules{}, fmt.Errorf("rules file %s: rank correction %d needs stage, bib, from_rank and to_rank", path, i)
		}
	}
	return rules, nil
}

// ApplyRules returns v with its rules replaced by the file at path.
// An empty path returns v unchanged.
func ApplyRules(v core.Variant, path string) (core.Variant, error) {
	if path == "" {
		return v, nil
	}
	rules, err := LoadRules(path)
	if err != nil {
		return v, err
	}
	v.Rules = rules
	return v, nil
}
