package datafile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// createFlockFile creates a lock file and takes an exclusive lock on it.
func createFlockFile(flockFile string) (*os.File, error) {
	flockF, err := os.OpenFile(flockFile, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot create lock file %q: %w", flockFile, err)
	}
	if err := unix.Flock(int(flockF.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		flockF.Close()
		return nil, fmt.Errorf("cannot acquire lock on file %q: %w", flockFile, err)
	}
	return flockF, nil
}

// destroyFlockFile unlocks and removes a lock file.
func destroyFlockFile(flockF *os.File) error {
	// Remove the lock file while still holding the lock so that a waiting
	// process can't lock a file that is about to vanish.
	if err := os.Remove(flockF.Name()); err != nil {
		return fmt.Errorf("cannot remove file %q: %w", flockF.Name(), err)
	}
	// Unlock the file.
	if err := unix.Flock(int(flockF.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("cannot unlock lock on file %q: %w", flockF.Name(), err)
	}
	// Close any open fd.
	if err := flockF.Close(); err != nil {
		return fmt.Errorf("cannot close fd on file %q: %w", flockF.Name(), err)
	}
	return nil
}
