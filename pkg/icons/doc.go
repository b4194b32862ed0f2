// Package icons resolves notification icon names to embedded image data.
//
// Icons are PNG files compiled into the binary from the assets directory and
// exposed as standard base64 strings keyed by file name. A lookup tries the
// name as given and then with a ".png" suffix, so "bell" and "bell.png"
// resolve to the same data.
//
//	reg, err := icons.Embedded()
//	if err != nil {
//		return err
//	}
//	data, ok := reg.Lookup("bell")
package icons
