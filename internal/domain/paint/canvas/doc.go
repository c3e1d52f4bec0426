/*
Package canvas holds the client side of the paint relay: a deterministic
raster surface, a pointer stroke tracker that renders optimistically before
emitting segments, and a replica that rebuilds the shared canvas from
load_history and draw_remote messages.

Rendering is pure integer-coverage rasterization with no anti-aliasing, so
replaying a history produces exactly the same pixels as applying the same
segments live.
*/
package canvas
