// Package decode turns raw shot histograms into logical readings and
// distribution statistics. Bit indexing is right to left: result bit 0
// is the rightmost character of each histogram key.
package decode
