package rules

import (
	"fmt"

	"github.com/Addarsh/Email-Integration/internal/gmail"
)

// Mutation derives the Gmail label changes this collection's actions call
// for. Labels accumulate in action order and are not deduplicated.
func (c Collection) Mutation() (gmail.Mutation, error) {
	var mut gmail.Mutation
	for _, a := range c.Actions {
		add, remove, err := a.labels()
		if err != nil {
			return gmail.Mutation{}, err
		}
		mut.Add = append(mut.Add, add...)
		mut.Remove = append(mut.Remove, remove...)
	}
	return mut, nil
}

// labels resolves one action to the label IDs it adds and removes.
// Read/Unread toggle the UNREAD label; moving somewhere other than the
// inbox also takes the message out of it.
func (a Action) labels() (add, remove []gmail.LabelID, err error) {
	switch a.Type {
	case ActionMark:
		switch a.Value {
		case TargetRead:
			return nil, []gmail.LabelID{gmail.LabelUnread}, nil
		case TargetUnread:
			return []gmail.LabelID{gmail.LabelUnread}, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: cannot mark message as %q", ErrActionLabel, string(a.Value))
	case ActionMove:
		switch a.Value {
		case TargetInbox:
			return []gmail.LabelID{gmail.LabelInbox}, nil, nil
		case TargetSpam:
			return []gmail.LabelID{gmail.LabelSpam}, []gmail.LabelID{gmail.LabelInbox}, nil
		case TargetImportant:
			return []gmail.LabelID{gmail.LabelImportant}, []gmail.LabelID{gmail.LabelInbox}, nil
		}
		return nil, nil, fmt.Errorf("%w: cannot move message to %q", ErrActionLabel, string(a.Value))
	}
	return nil, nil, fmt.Errorf("%w: unknown action type %q", ErrActionLabel, string(a.Type))
}
