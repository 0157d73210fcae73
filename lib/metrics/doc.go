// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics derives roster statistics from grid state.
//
// Every function is pure: it reads a roster.Grid (and violations or
// rules where needed) and returns fresh values. Callers recompute
// after each mutation instead of invalidating caches.
package metrics
