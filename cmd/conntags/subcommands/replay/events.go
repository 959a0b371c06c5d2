// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package replay

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/netip"
	"strings"

	jsoniter "github.com/json-iterator/go"

	conntagsdef "github.com/DataDog/conntags/comp/network/conntags/def"
	netebpf "github.com/DataDog/conntags/pkg/network/ebpf"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/network/types"
)

const (
	opTrack   = "track"
	opObserve = "observe"
	opRemove  = "remove"
)

// event is one line of an event file, for instance
//
//	{"op":"observe","laddr":"10.0.0.1:50000","raddr":"10.0.0.2:443","tags":["LIBSSL","TLS"]}
type event struct {
	Op     string   `json:"op"`
	Type   string   `json:"type,omitempty"`
	Laddr  string   `json:"laddr"`
	Raddr  string   `json:"raddr"`
	NetNS  uint32   `json:"netns,omitempty"`
	Cookie uint64   `json:"cookie,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	// Mask is a raw tag mask, merged with Tags
	Mask uint64 `json:"mask,omitempty"`

	line int
}

func (e *event) key() (types.ConnectionKey, error) {
	laddr, err := netip.ParseAddrPort(e.Laddr)
	if err != nil {
		return types.ConnectionKey{}, fmt.Errorf("invalid laddr: %w", err)
	}
	raddr, err := netip.ParseAddrPort(e.Raddr)
	if err != nil {
		return types.ConnectionKey{}, fmt.Errorf("invalid raddr: %w", err)
	}

	key := types.NewConnectionKey(laddr.Addr(), raddr.Addr(), laddr.Port(), raddr.Port())
	switch strings.ToLower(e.Type) {
	case "", "tcp":
	case "udp":
		key = key.WithType(netebpf.UDP)
	default:
		return types.ConnectionKey{}, fmt.Errorf("invalid connection type %q", e.Type)
	}
	return key.WithNetNS(e.NetNS).WithCookie(e.Cookie), nil
}

// readEvents parses an event file: one JSON event per line. Blank lines and
// lines starting with # are skipped.
func readEvents(r io.Reader) ([]event, error) {
	var events []event

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}

		var e event
		if err := jsoniter.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e.line = line
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

type replayStats struct {
	tracked  int
	observed int
	dropped  int
	removed  int
}

// apply plays events against store, in order
func apply(store conntagsdef.Component, vocabulary *tags.Vocabulary, events []event) (replayStats, error) {
	var stats replayStats
	for i := range events {
		e := &events[i]
		key, err := e.key()
		if err != nil {
			return stats, fmt.Errorf("line %d: %w", e.line, err)
		}

		switch strings.ToLower(e.Op) {
		case opTrack:
			if store.Track(key) {
				stats.tracked++
			}
		case opObserve:
			set, err := vocabulary.Parse(e.Tags...)
			if err != nil {
				return stats, fmt.Errorf("line %d: %w", e.line, err)
			}
			if store.ObserveSet(key, set.Union(tags.Set(e.Mask))) {
				stats.observed++
			} else {
				stats.dropped++
			}
		case opRemove:
			store.Remove(key)
			stats.removed++
		default:
			return stats, fmt.Errorf("line %d: unknown operation %q", e.line, e.Op)
		}
	}
	return stats, nil
}
