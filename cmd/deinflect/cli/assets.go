package cli

import "github.com/jtransform/deinflect/assets"

func defaultDescriptor() ([]byte, error) {
	return assets.JapaneseDescriptor, nil
}
