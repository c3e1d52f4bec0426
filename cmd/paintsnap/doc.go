// Command paintsnap saves the community canvas as an image.
//
// It rebuilds the canvas the way a browser does, either by joining the
// relay and replaying its load_history (--mode ws, the default) or by
// fetching GET /paint/history (--mode rest), then encodes it as PNG or
// JPEG depending on the output extension.
//
// Usage:
//
//	paintsnap --server http://localhost:3001 --out canvas.png
//	paintsnap --mode rest --out canvas.jpg --quality 85
package main
