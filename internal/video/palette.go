package video

// RGB is one framebuffer pixel.
type RGB struct{ R, G, B byte }

var shadeRGB = [4]RGB{
	{255, 255, 255}, // white
	{160, 160, 160}, // light gray
	{90, 90, 90},     // dark gray
	{0, 0, 0},       // black
}

// applyPalette maps a 2-bit color id through a palette register (bits
// 0-1 shade for id 0, 2-3 for id 1, 4-5 for id 2, 6-7 for id 3) to RGB.
func applyPalette(pal byte, colorID byte) RGB {
	shade := (pal >> (colorID * 2)) & 0x03
	return shadeRGB[shade]
}
