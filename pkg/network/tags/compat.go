// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package tags

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrIncompatible is returned when a vocabulary is not an additive change of another
var ErrIncompatible = errors.New("incompatible vocabulary")

// CheckCompatible verifies that next only adds tags to prev: every tag of prev
// must still be defined in next, under the same name and at the same bit.
// Retired tags must stay defined, flagged as deprecated.
func CheckCompatible(prev, next *Vocabulary) error {
	var errs *multierror.Error
	for _, old := range prev.defs {
		cur, ok := next.Lookup(old.Tag())
		switch {
		case !ok:
			if t, err := next.PositionOf(old.Name); err == nil {
				errs = multierror.Append(errs, fmt.Errorf("%w: %s moved from bit %d to bit %d", ErrIncompatible, old.Name, old.Bit, t))
			} else {
				errs = multierror.Append(errs, fmt.Errorf("%w: %s (bit %d) was removed, flag it as deprecated instead", ErrIncompatible, old.Name, old.Bit))
			}
		case cur.Name != old.Name:
			errs = multierror.Append(errs, fmt.Errorf("%w: bit %d was reused by %s, it belongs to %s", ErrIncompatible, old.Bit, cur.Name, old.Name))
		case cur.Report != old.Report:
			errs = multierror.Append(errs, fmt.Errorf("%w: %s is reported as %q instead of %q", ErrIncompatible, old.Name, cur.Report, old.Report))
		}
	}
	return errs.ErrorOrNil()
}
