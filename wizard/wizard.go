package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MixinNetwork/funmint/nft"
	"github.com/MixinNetwork/mixin/crypto"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/fox-one/mixin-sdk-go"
)

// Wizard owns the Upload, Mint and Done steps of one minting session. Only
// one stage operation runs at a time, the mutex is never held across a
// collaborator call.
type Wizard struct {
	sync.Mutex
	store    nft.Store
	storage  nft.Storage
	contract nft.Contract
	wallet   nft.Wallet

	step    Step
	minted  string
	pending bool
}

type State struct {
	Step   Step
	Draft  *nft.Draft
	Minted string
	Busy   bool
}

type MintResult struct {
	TraceId   string
	Recipient string
	Image     string
	TokenURI  string
	Receipt   *nft.Receipt
}

func New(store nft.Store, storage nft.Storage, contract nft.Contract, wallet nft.Wallet) (*Wizard, error) {
	d, err := store.ReadDraft()
	if err != nil {
		return nil, err
	}
	return &Wizard{
		store:    store,
		storage:  storage,
		contract: contract,
		wallet:   wallet,
		step:     DeriveInitialStep(d),
	}, nil
}

func (w *Wizard) Step() Step {
	w.Lock()
	defer w.Unlock()
	return w.step
}

func (w *Wizard) State() (*State, error) {
	d, err := w.store.ReadDraft()
	if err != nil {
		return nil, err
	}
	w.Lock()
	defer w.Unlock()
	return &State{
		Step:   w.step,
		Draft:  d,
		Minted: w.minted,
		Busy:   w.pending,
	}, nil
}

func (w *Wizard) Upload(ctx context.Context, img *nft.Image) (*nft.Draft, error) {
	err := img.Validate()
	if err != nil {
		return nil, err
	}
	err = w.begin(StepUpload)
	if err != nil {
		return nil, err
	}
	defer w.end()

	addr, err := w.storage.UploadBytes(ctx, img.Name, img.Data)
	if err == nil && !nft.IsContentAddress(addr) {
		err = fmt.Errorf("invalid content address %q", addr)
	}
	if err != nil {
		return nil, &nft.CollaboratorError{Op: "storage.UploadBytes", Message: nft.MessageUploadFailed, Err: err}
	}

	d := &nft.Draft{
		ContentAddress: addr,
		Digest:         crypto.NewHash(img.Data).String(),
		UploadedAt:     time.Now(),
	}
	err = w.store.WriteDraft(d)
	if err != nil {
		return nil, &nft.CollaboratorError{Op: "store.WriteDraft", Message: nft.MessageUploadFailed, Err: err}
	}
	logger.Printf("Wizard.Upload(%s, %d) => %s %s\n", img.Name, len(img.Data), d.ContentAddress, d.Digest)

	w.move(StepMint, "")
	return d, nil
}

func (w *Wizard) Mint(ctx context.Context, form *nft.MintForm) (*MintResult, error) {
	err := form.Validate()
	if err != nil {
		return nil, err
	}
	err = w.begin(StepMint)
	if err != nil {
		return nil, err
	}
	defer w.end()

	recipient, connected := w.wallet.Account()
	if !connected {
		return nil, &nft.PreconditionError{Message: nft.MessageNoWallet}
	}
	d, err := w.store.ReadDraft()
	if err != nil {
		return nil, &nft.CollaboratorError{Op: "store.ReadDraft", Message: nft.MessageMintFailed, Err: err}
	}
	if !d.Valid() {
		return nil, &nft.PreconditionError{Message: nft.MessageNoDraft}
	}
	meta, err := nft.BuildMetadata(form, d.ContentAddress)
	if err != nil {
		return nil, err
	}

	tokenURI, err := w.storage.UploadJSON(ctx, meta)
	if err == nil && !nft.IsContentAddress(tokenURI) {
		err = fmt.Errorf("invalid content address %q", tokenURI)
	}
	if err != nil {
		return nil, &nft.CollaboratorError{Op: "storage.UploadJSON", Message: nft.MessageMintFailed, Err: err}
	}

	traceId := mixin.UniqueConversationID(d.ContentAddress, recipient)
	logger.Printf("Wizard.Mint(%s, %s, %s)\n", traceId, recipient, tokenURI)
	receipt, err := w.contract.Mint(ctx, recipient, tokenURI)
	if err != nil {
		return nil, &nft.CollaboratorError{Op: "contract.Mint", Message: nft.MessageMintFailed, Err: err}
	}
	logger.Printf("Wizard.Mint(%s) => %s %d\n", traceId, receipt.TransactionHash, receipt.BlockNumber)

	// the token exists on chain now, a stale draft must not block the Done step
	err = w.store.DeleteDraft()
	if err != nil {
		logger.Printf("Wizard.Mint(%s) DeleteDraft %v\n", traceId, err)
	}
	w.move(StepDone, d.ContentAddress)
	return &MintResult{
		TraceId:   traceId,
		Recipient: recipient,
		Image:     d.ContentAddress,
		TokenURI:  tokenURI,
		Receipt:   receipt,
	}, nil
}

func (w *Wizard) StartOver() error {
	w.Lock()
	defer w.Unlock()

	if w.pending {
		return nft.NewPreconditionError("wizard is busy at step %s", w.step)
	}
	if w.step != StepMint {
		return nft.NewPreconditionError("start over is not allowed at step %s", w.step)
	}
	err := w.store.DeleteDraft()
	if err != nil {
		return err
	}
	w.step = StepUpload
	return nil
}

func (w *Wizard) MintAgain() error {
	w.Lock()
	defer w.Unlock()

	if w.step != StepDone {
		return nft.NewPreconditionError("mint again is not allowed at step %s", w.step)
	}
	w.minted = ""
	w.step = StepUpload
	return nil
}

func (w *Wizard) begin(step Step) error {
	w.Lock()
	defer w.Unlock()

	if w.pending {
		return nft.NewPreconditionError("wizard is busy at step %s", w.step)
	}
	if w.step != step {
		return nft.NewPreconditionError("wizard is at step %s not %s", w.step, step)
	}
	w.pending = true
	return nil
}

func (w *Wizard) end() {
	w.Lock()
	defer w.Unlock()
	w.pending = false
}

func (w *Wizard) move(step Step, minted string) {
	w.Lock()
	defer w.Unlock()
	w.step = step
	w.minted = minted
}
