package wizard

import "github.com/MixinNetwork/funmint/nft"

type Step int

const (
	StepUpload Step = iota + 1
	StepMint
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepUpload:
		return "Upload"
	case StepMint:
		return "Mint"
	case StepDone:
		return "Done"
	}
	panic(int(s))
}

// DeriveInitialStep never yields StepDone, a finished mint is not resumed.
func DeriveInitialStep(d *nft.Draft) Step {
	if d.Valid() {
		return StepMint
	}
	return StepUpload
}
