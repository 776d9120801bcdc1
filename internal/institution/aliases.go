// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package institution

import "strings"

// Alias ties a well-known institution to the short forms it is reported
// under. Abbreviations shared by several institutions (UW, OSU, PSU, USC)
// are not listed.
type Alias struct {
	Canonical  string
	Alternates []string
}

func (a Alias) names() []string {
	return append([]string{a.Canonical}, a.Alternates...)
}

var aliasTable = []Alias{
	{"Massachusetts Institute of Technology", []string{"MIT"}},
	{"University of Colorado Boulder", []string{"CU Boulder", "UC Boulder", "CU-Boulder", "University of Colorado at Boulder", "University of Colorado, Boulder"}},
	{"University of Texas at Austin", []string{"UT Austin", "UT-Austin", "The University of Texas at Austin"}},
	{"University of Illinois Urbana-Champaign", []string{"UIUC", "University of Illinois at Urbana-Champaign", "Illinois Urbana-Champaign"}},
	{"University of California, San Diego", []string{"UCSD", "UC San Diego"}},
	{"University of California, Los Angeles", []string{"UCLA", "UC Los Angeles"}},
	{"University of California, Berkeley", []string{"UC Berkeley", "Berkeley"}},
	{"Carnegie Mellon University", []string{"CMU", "Carnegie Mellon"}},
	{"Georgia Institute of Technology", []string{"Georgia Tech"}},
	{"California Institute of Technology", []string{"Caltech"}},
	{"Pennsylvania State University", []string{"Penn State", "The Pennsylvania State University", "Penn State University"}},
	{"Ohio State University", []string{"The Ohio State University"}},
	{"University of Michigan", []string{"UMich", "University of Michigan-Ann Arbor", "University of Michigan Ann Arbor"}},
	{"University of Wisconsin-Madison", []string{"UW-Madison", "UW Madison", "University of Wisconsin Madison"}},
	{"University of Washington", []string{"UW Seattle", "University of Washington Seattle"}},
	{"Texas A&M University", []string{"TAMU", "Texas A and M University"}},
	{"Virginia Polytechnic Institute and State University", []string{"Virginia Tech"}},
	{"Rensselaer Polytechnic Institute", []string{"RPI"}},
	{"National Center for Atmospheric Research", []string{"NCAR"}},
	{"Texas Advanced Computing Center", []string{"TACC"}},
	{"San Diego Supercomputer Center", []string{"SDSC"}},
	{"National Center for Supercomputing Applications", []string{"NCSA"}},
	{"Pittsburgh Supercomputing Center", []string{"PSC"}},
}

// lookupAliases returns every table entry whose canonical name or one of
// whose alternates matches name.
func lookupAliases(name string) []Alias {
	var out []Alias
	for _, a := range aliasTable {
		for _, n := range a.names() {
			if aliasMatch(name, n) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// aliasMatch applies the alias confidence tiers: exact key equality;
// substring when both keys are at least 15 characters; word-anchored
// containment of a short abbreviation; and overlap of at least half of
// the significant words with two or more shared.
func aliasMatch(a, b string) bool {
	ka, kb := key(a), key(b)
	if ka == "" || kb == "" {
		return false
	}
	if ka == kb {
		return true
	}
	if len(ka) >= 15 && len(kb) >= 15 && (strings.Contains(ka, kb) || strings.Contains(kb, ka)) {
		return true
	}
	if isAbbreviation(a) && containsWords(kb, ka) || isAbbreviation(b) && containsWords(ka, kb) {
		return true
	}
	shared, ratio := overlap(aliasWords(ka), aliasWords(kb))
	return shared >= 2 && ratio >= 0.5
}

func isAbbreviation(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && len(s) <= 6 && !strings.ContainsAny(s, " \t")
}

var connectors = map[string]bool{"of": true, "at": true, "the": true, "and": true, "in": true, "for": true}

// aliasWords drops connectors and generic institution words from a key.
func aliasWords(k string) []string {
	var out []string
	for _, w := range strings.Fields(k) {
		if connectors[w] || genericWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}
