// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package marshal

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// ContentTypeText holds the HTML content-type of a human readable payload
const ContentTypeText = "text/plain"

type textSerializer struct{}

// Marshal writes one line per connection, with its decoded tags
func (textSerializer) Marshal(payload *Payload, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tFAMILY\tSOURCE\tDESTINATION\tNETNS\tCOOKIE\tTAGS")

	decoded := payload.Decoder()
	for _, c := range payload.Connections {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%#x\t%s\n",
			c.Type, c.Family, c.Laddr, c.Raddr, c.NetNS, c.Cookie,
			strings.Join(decoded.Tags(c), ","),
		)
	}
	return w.Flush()
}

func (textSerializer) ContentType() string {
	return ContentTypeText
}

var _ Marshaler = textSerializer{}
