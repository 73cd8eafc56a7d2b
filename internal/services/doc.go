// Package services defines the Similarity interface for talking to a
// music-similarity analysis service, and its AudioMuse-AI implementation.
package services
