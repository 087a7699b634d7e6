package history

import "os"

// SetOpenFunc replaces the segment opener.
func SetOpenFunc(j *Journal, open func(name string) (*os.File, error)) {
	j.open = open
}
