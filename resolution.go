package vgraph

import "fmt"

// Resolution selects one of the fixed set of global render resolutions.
// Changing the resolution triggers the full resource reallocation path:
// every node's texture and render target is destroyed and re-created at
// the new size.
type Resolution int

const (
	// Res144p is 256x144.
	Res144p Resolution = iota

	// Res240p is 426x240.
	Res240p

	// Res360p is 640x360.
	Res360p

	// Res480p is 854x480.
	Res480p

	// Res720p is 1280x720.
	Res720p

	// Res1080p is 1920x1080.
	Res1080p
)

var resolutionSizes = [...][2]int{
	{256, 144},
	{426, 240},
	{640, 360},
	{854, 480},
	{1280, 720},
	{1920, 1080},
}

// Size returns the resolution's pixel dimensions. Unknown values report
// the 360p size.
func (r Resolution) Size() (width, height int) {
	if r < 0 || int(r) >= len(resolutionSizes) {
		r = Res360p
	}
	return resolutionSizes[r][0], resolutionSizes[r][1]
}

// String returns a label like "640x360".
func (r Resolution) String() string {
	w, h := r.Size()
	return fmt.Sprintf("%dx%d", w, h)
}
