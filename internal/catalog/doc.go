// Package catalog resolves YouTube references and talks to the remote
// catalog: video metadata, stream manifests, stream bytes, playlist
// snapshots, and raw watch-page markup.
//
// Catalog is the seam the rest of the pipeline depends on; YouTube is the
// production implementation built on github.com/kkdai/youtube/v2 with a
// github.com/ytget/ytdlp/v2 fallback for playlist enumeration.
package catalog
