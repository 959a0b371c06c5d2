// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package tags holds the static connection tag vocabulary (which protocol or
// TLS library was seen on a connection) and the Set bitmask used to carry
// those tags per connection.
package tags
