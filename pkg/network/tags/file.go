// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package tags

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type vocabularyFile struct {
	Tags []Definition `yaml:"tags"`
}

// LoadVocabulary reads a YAML vocabulary document of the form
//
//	tags:
//	  - name: HTTP
//	    bit: 0
//	    report: protocol:http
//
// and validates it like NewVocabulary does.
func LoadVocabulary(r io.Reader) (*Vocabulary, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f vocabularyFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty vocabulary document", ErrInvalidDefinition)
		}
		return nil, fmt.Errorf("unable to parse vocabulary: %w", err)
	}
	return NewVocabulary(f.Tags...)
}

// LoadVocabularyFile is LoadVocabulary reading from path
func LoadVocabularyFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadVocabulary(f)
}
