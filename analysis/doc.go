// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package analysis is the co-occurrence engine: candidate-party index,
// per-ballot metrics, pair counting and party pattern classification.
// Everything here is a pure function of a ballot slice.
package analysis
