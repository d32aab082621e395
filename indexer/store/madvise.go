package store

import "golang.org/x/sys/unix"

// applyMadvise forwards each set bit in flags to unix.Madvise, in the order
// DontDump, WillNeed, HugePage, and returns the first error unix.Madvise
// reports; the remaining flags are then not applied.
func applyMadvise(data []byte, flags MadviseFlags) error {
	if len(data) == 0 {
		return nil
	}
	try := func(bit MadviseFlags, advice int) error {
		if flags&bit == 0 {
			return nil
		}
		return unix.Madvise(data, advice)
	}
	if err := try(MadviseDontDump, unix.MADV_DONTDUMP); err != nil {
		return err
	}
	if err := try(MadviseWillNeed, unix.MADV_WILLNEED); err != nil {
		return err
	}
	if err := try(MadviseHugePage, unix.MADV_HUGEPAGE); err != nil {
		return err
	}
	return nil
}
