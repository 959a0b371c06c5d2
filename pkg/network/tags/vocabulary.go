// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package tags

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"k8s.io/apimachinery/pkg/util/sets"
)

var (
	// ErrUnknownTag is returned when looking up a name that is not part of the vocabulary
	ErrUnknownTag = errors.New("unknown tag")
	// ErrVocabularyOverflow is returned when a vocabulary does not fit in a Set
	ErrVocabularyOverflow = errors.New("vocabulary overflow")
	// ErrDuplicatePosition is returned when two tags share a bit position
	ErrDuplicatePosition = errors.New("duplicate tag position")
	// ErrDuplicateName is returned when two tags share a name
	ErrDuplicateName = errors.New("duplicate tag name")
	// ErrInvalidDefinition is returned for malformed tag definitions
	ErrInvalidDefinition = errors.New("invalid tag definition")
)

// Built-in tags. Positions are the wire encoding shared with the kernel
// probes (see the ConnTag* masks in pkg/network/ebpf) and are never reused.
const (
	HTTP      Tag = 0
	LibGnuTLS Tag = 1
	LibSSL    Tag = 2
	TLS       Tag = 3

	lastDefaultTag = TLS
)

// fails to compile if a built-in tag does not fit in a Set
var _ [MaxTags - 1 - int(lastDefaultTag)]struct{}

// Definition describes one tag of a Vocabulary
type Definition struct {
	Name        string `yaml:"name"`
	Bit         uint8  `yaml:"bit"`
	Report      string `yaml:"report,omitempty"`
	Description string `yaml:"description,omitempty"`
	// Deprecated tags keep their position reserved and are still reported
	// when their bit is set
	Deprecated bool `yaml:"deprecated,omitempty"`
}

// Tag returns the tag position of the definition
func (d Definition) Tag() Tag {
	return Tag(d.Bit)
}

// Vocabulary is a closed, validated mapping between tag names and bit positions.
// A Vocabulary is immutable once built and safe for concurrent use.
type Vocabulary struct {
	defs    []Definition
	byName  map[string]*Definition
	byTag   [MaxTags]*Definition
	defined Set
}

var defaultVocabulary = MustNewVocabulary(
	Definition{Name: "HTTP", Bit: uint8(HTTP), Report: "protocol:http", Description: "plain HTTP traffic"},
	Definition{Name: "LIBGNUTLS", Bit: uint8(LibGnuTLS), Report: "tls.library:gnutls", Description: "TLS handled by GnuTLS"},
	Definition{Name: "LIBSSL", Bit: uint8(LibSSL), Report: "tls.library:openssl", Description: "TLS handled by OpenSSL"},
	Definition{Name: "TLS", Bit: uint8(TLS), Report: "tls.connection:encrypted", Description: "TLS traffic, library agnostic"},
)

// Default returns the built-in vocabulary
func Default() *Vocabulary {
	return defaultVocabulary
}

// NewVocabulary validates the definitions and builds a Vocabulary from them.
// All validation problems are reported at once.
func NewVocabulary(defs ...Definition) (*Vocabulary, error) {
	var errs *multierror.Error
	if len(defs) > MaxTags {
		errs = multierror.Append(errs, fmt.Errorf("%w: %d tags defined, a tag set holds at most %d", ErrVocabularyOverflow, len(defs), MaxTags))
	}

	var (
		names   = sets.New[string]()
		holders [MaxTags]string
		used    Set
		valid   = make([]Definition, 0, len(defs))
	)
	for _, d := range defs {
		name := canonicalName(d.Name)
		if name == "" {
			errs = multierror.Append(errs, fmt.Errorf("%w: tag at bit %d has no name", ErrInvalidDefinition, d.Bit))
			continue
		}
		if d.Bit >= MaxTags {
			errs = multierror.Append(errs, fmt.Errorf("%w: tag %s uses bit %d, the last usable bit is %d", ErrVocabularyOverflow, name, d.Bit, MaxTags-1))
			continue
		}
		if names.Has(name) {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s", ErrDuplicateName, name))
			continue
		}
		if used.Contains(d.Tag()) {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s and %s both use bit %d", ErrDuplicatePosition, holders[d.Bit], name, d.Bit))
			continue
		}

		names.Insert(name)
		holders[d.Bit] = name
		used = used.With(d.Tag())

		d.Name = name
		if d.Report == "" {
			d.Report = strings.ToLower(name)
		}
		valid = append(valid, d)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Bit < valid[j].Bit })
	v := &Vocabulary{
		defs:    valid,
		byName:  make(map[string]*Definition, len(valid)),
		defined: used,
	}
	for i := range v.defs {
		d := &v.defs[i]
		v.byName[d.Name] = d
		v.byTag[d.Bit] = d
	}
	return v, nil
}

// MustNewVocabulary is like NewVocabulary but panics on invalid definitions
func MustNewVocabulary(defs ...Definition) *Vocabulary {
	v, err := NewVocabulary(defs...)
	if err != nil {
		panic(fmt.Sprintf("invalid tag vocabulary: %s", err))
	}
	return v
}

// Extend returns a new Vocabulary holding the current definitions plus defs
func (v *Vocabulary) Extend(defs ...Definition) (*Vocabulary, error) {
	return NewVocabulary(append(v.Definitions(), defs...)...)
}

// PositionOf returns the bit position of the named tag. Names are case-insensitive.
func (v *Vocabulary) PositionOf(name string) (Tag, error) {
	d, ok := v.byName[canonicalName(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTag, name)
	}
	return d.Tag(), nil
}

// Lookup returns the definition of tag t
func (v *Vocabulary) Lookup(t Tag) (Definition, bool) {
	if t >= MaxTags || v.byTag[t] == nil {
		return Definition{}, false
	}
	return *v.byTag[t], true
}

// Definitions returns a copy of the definitions, in ascending bit order
func (v *Vocabulary) Definitions() []Definition {
	defs := make([]Definition, len(v.defs))
	copy(defs, v.defs)
	return defs
}

// Len returns the number of defined tags
func (v *Vocabulary) Len() int {
	return len(v.defs)
}

// Defined returns the Set of all defined positions
func (v *Vocabulary) Defined() Set {
	return v.defined
}

// Names returns the report strings of the tags in s, in ascending bit order.
// Bits without a definition are skipped.
func (v *Vocabulary) Names(s Set) []string {
	var names []string
	for _, t := range (s & v.defined).List() {
		names = append(names, v.byTag[t].Report)
	}
	return names
}

// Parse builds a Set out of tag names
func (v *Vocabulary) Parse(names ...string) (Set, error) {
	var (
		s    Set
		errs *multierror.Error
	)
	for _, name := range names {
		t, err := v.PositionOf(name)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		s = s.With(t)
	}
	return s, errs.ErrorOrNil()
}

func canonicalName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
