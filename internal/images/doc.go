// Package images discovers local artwork and probes image dimensions.
//
// Artwork lives next to the items it decorates: bare names like
// poster.jpg or backdrop2.png inside an item's folder, video-prefixed
// names like Movie-poster.jpg, and dedicated directories (extrafanart,
// extrathumbs) whose images all get one type. Probing reads only the
// image header, so a scan never decodes pixel data; LoadConstrained is
// for callers that need the pixels and caps decode size.
package images
