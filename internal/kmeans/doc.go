// Package kmeans partitions 2-D points into k clusters with Lloyd's algorithm.
//
// A run starts from k initial centroids (sampled from the data or supplied by
// the caller), then alternates an assignment step (each point to its nearest
// centroid, lowest index on ties) and an update step (each centroid to the mean
// of its members) until no centroid moves by the tolerance or the iteration cap
// is reached.
//
// Empty clusters are reseeded with a random data point, so even fixed input is
// only reproducible when the Clusterer is given a seeded random source.
package kmeans
