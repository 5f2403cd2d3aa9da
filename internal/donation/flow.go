package donation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
)

type State string

const (
	StateForm       State = "form"
	StateProcessing State = "processing"
	StateRedirected State = "redirected"
	StateError      State = "error"
	StateContact    State = "contact"
)

var ErrInvalidTransition = errors.New("invalid donation flow transition")

// Form is the donor's input as entered.
type Form struct {
	Amount     string
	Email      string
	ArtistName string
	ArtTitle   string
}

// Flow drives one donation attempt:
//
//	form -> processing -> redirected
//	                   -> error -> form | contact
//
// It never retries on its own. Navigate is called exactly once, with the
// checkout URL, when the backend accepts the donation.
type Flow struct {
	creator      Creator
	navigate     func(url string)
	contactEmail string

	mu      sync.Mutex
	state   State
	form    Form
	message string
}

func NewFlow(creator Creator, navigate func(url string), contactEmail string) *Flow {
	return &Flow{
		creator:      creator,
		navigate:     navigate,
		contactEmail: contactEmail,
		state:        StateForm,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message is the text shown with the current state, empty when there is none.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Submit validates the form and asks the backend for a checkout session. An
// invalid amount keeps the flow in the form state without a backend call.
func (f *Flow) Submit(ctx context.Context, form Form) (*domain.CheckoutSession, error) {
	f.mu.Lock()
	if f.state != StateForm {
		st := f.state
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, st)
	}
	f.form = form

	amount, err := ParseAmount(form.Amount)
	if err != nil {
		f.message = UserMessage(err)
		f.mu.Unlock()
		return nil, err
	}
	f.state = StateProcessing
	f.message = ""
	f.mu.Unlock()

	session, err := f.creator.CreateDonation(ctx, domain.DonationRequest{
		Amount:     amount,
		Email:      form.Email,
		ArtistName: form.ArtistName,
		ArtTitle:   form.ArtTitle,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateError
		f.message = UserMessage(err)
		return nil, err
	}
	f.state = StateRedirected
	f.navigate(session.URL)
	return session, nil
}

// TryAgain returns from the error state to the form, keeping the last input.
func (f *Flow) TryAgain() (Form, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateError {
		return Form{}, fmt.Errorf("%w: try again from %s", ErrInvalidTransition, f.state)
	}
	f.state = StateForm
	f.message = ""
	return f.form, nil
}

// Contact abandons the online flow and returns the mailto fallback.
func (f *Flow) Contact() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateError {
		return "", fmt.Errorf("%w: contact from %s", ErrInvalidTransition, f.state)
	}
	f.state = StateContact
	return ContactURL(f.contactEmail, f.form.ArtistName, f.form.ArtTitle), nil
}
