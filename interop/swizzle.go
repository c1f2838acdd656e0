package interop

import vk "github.com/vulkan-go/vulkan"

// Identity always constructs a fresh vk.ComponentMapping rather than
// returning a shared package value — Design Notes: "Identity is always a
// freshly constructed value (do not share a mutable native struct)".
func Identity() vk.ComponentMapping {
	return vk.ComponentMapping{
		R: vk.ComponentSwizzleIdentity,
		G: vk.ComponentSwizzleIdentity,
		B: vk.ComponentSwizzleIdentity,
		A: vk.ComponentSwizzleIdentity,
	}
}

// Swizzle derives a vk.ComponentMapping from a 4-character component
// string such as "ABGR", reordering the source channels (R, G, B, A) into
// the destination channel each character occupies. "1" and "0" request
// the constant-one/constant-zero swizzle for that destination channel; a
// character equal to its own destination letter resolves to identity for
// that channel. Used by resource.NewView to undo a loader's channel
// order (e.g. a loader that hands back ABGR pixel data swizzles to RGBA
// on the image view so sampling reads it correctly).
func Swizzle(components string) (vk.ComponentMapping, error) {
	if len(components) != 4 {
		return vk.ComponentMapping{}, errSwizzleLength
	}
	dest := [4]byte{'R', 'G', 'B', 'A'}
	out := Identity()
	fields := [4]*vk.ComponentSwizzle{&out.R, &out.G, &out.B, &out.A}
	for i, c := range components {
		sw, err := swizzleFor(byte(c), dest[i])
		if err != nil {
			return vk.ComponentMapping{}, err
		}
		*fields[i] = sw
	}
	return out, nil
}

var errSwizzleLength = swizzleError("component string must be exactly 4 characters")

type swizzleError string

func (e swizzleError) Error() string { return "interop: " + string(e) }

func swizzleFor(c byte, dest byte) (vk.ComponentSwizzle, error) {
	switch c {
	case '0':
		return vk.ComponentSwizzleZero, nil
	case '1':
		return vk.ComponentSwizzleOne, nil
	case dest:
		return vk.ComponentSwizzleIdentity, nil
	case 'R', 'r':
		return vk.ComponentSwizzleR, nil
	case 'G', 'g':
		return vk.ComponentSwizzleG, nil
	case 'B', 'b':
		return vk.ComponentSwizzleB, nil
	case 'A', 'a':
		return vk.ComponentSwizzleA, nil
	default:
		return 0, swizzleError("unsupported swizzle character")
	}
}
