package domain

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleCompany Role = "COMPANY"
	RoleAdmin   Role = "ADMIN"
)

type ConversationContext string

const (
	ContextAdoptionRequest ConversationContext = "ADOPTION_REQUEST"
	ContextOffer           ConversationContext = "OFFER"
	ContextBroadcast       ConversationContext = "BROADCAST"
	ContextAdminMessage    ConversationContext = "ADMIN_MESSAGE"
)

type ConversationStatus string

const (
	ConversationActive   ConversationStatus = "ACTIVE"
	ConversationArchived ConversationStatus = "ARCHIVED"
	ConversationExpired  ConversationStatus = "EXPIRED"
)

type BroadcastTarget string

const (
	TargetAll       BroadcastTarget = "ALL"
	TargetStudents  BroadcastTarget = "STUDENTS"
	TargetCompanies BroadcastTarget = "COMPANIES"
)

// TargetForRole maps a user role onto the broadcast target that addresses it.
// Admins have no audience target; they only see broadcasts they created.
func TargetForRole(role Role) (BroadcastTarget, bool) {
	switch role {
	case RoleStudent:
		return TargetStudents, true
	case RoleCompany:
		return TargetCompanies, true
	default:
		return "", false
	}
}

type OfferType string

const (
	OfferInternship     OfferType = "INTERNSHIP"
	OfferApprenticeship OfferType = "APPRENTICESHIP"
	OfferJob            OfferType = "JOB"
)

type OfferStatus string

const (
	OfferOpen   OfferStatus = "OPEN"
	OfferClosed OfferStatus = "CLOSED"
)

// RequestStatus is shared by applications and adoption requests.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestAccepted RequestStatus = "ACCEPTED"
	RequestRejected RequestStatus = "REJECTED"
)
