package models

// Rights is the ordered permission level an actor holds over a resource:
// None < Publish < Full.
type Rights int

const (
	RightsNone Rights = iota
	RightsPublish
	RightsFull
)

func (r Rights) String() string {
	switch r {
	case RightsPublish:
		return "publish"
	case RightsFull:
		return "full"
	default:
		return "none"
	}
}

// Team is a provider-side group. Membership is resolved against the
// external provider, never stored locally.
type Team struct {
	ID   int64
	Org  string
	Name string
}

// Owner is the closed union of entities that may own a resource. The two
// implementations below are the only ones; resolvers switch on the
// concrete type.
type Owner interface {
	isOwner()
}

// UserOwner is an individual user owning a resource.
type UserOwner struct {
	User User
}

// TeamOwner is a team owning a resource.
type TeamOwner struct {
	Team Team
}

func (UserOwner) isOwner() {}
func (TeamOwner) isOwner() {}
