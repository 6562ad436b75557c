package messages

// User facing messages. Anything with a format verb is used with fmt.Sprintf.
const (
	// ErrUserErrorProcessing is shown when an interaction fails for a reason the user cannot fix.
	ErrUserErrorProcessing = "There was an error processing your request, please try again later."

	// ErrUserRateLimited is shown when a user sends interactions faster than allowed.
	ErrUserRateLimited = "You are doing that too fast, please wait a moment and try again."

	// ErrUserNotAdministrator is shown when a non administrator uses a setup command.
	ErrUserNotAdministrator = "You must be an administrator to use this command."

	// ErrTicketingNotConfigured is shown when tickets are requested in a server without active ticketing.
	ErrTicketingNotConfigured = "Ticketing is not enabled on this server."

	// ErrUnknownTicketType is shown when the selected ticket type is not recognised.
	ErrUnknownTicketType = "That ticket type is not available."

	// InfoTicketAlreadyOpen is shown when a user with an open ticket tries to open another.
	InfoTicketAlreadyOpen = "You already have an open ticket."

	// InfoTicketAlreadyOpenIn is InfoTicketAlreadyOpen with a link to the open ticket channel.
	InfoTicketAlreadyOpenIn = "You already have an open ticket: <#%s>"

	// ErrTicketNotFound is shown when a ticket action refers to a ticket that does not exist.
	ErrTicketNotFound = "Ticket not found."

	// ErrNotPermittedToClose is shown when a user without the ticket role closes someone else's ticket.
	ErrNotPermittedToClose = "Only the ticket owner or the ticket team can close this ticket."

	// ErrInvalidRating is shown when a rating is not a whole number from 1 to 5.
	ErrInvalidRating = "Ratings must be a whole number from 1 to 5."

	// TicketCreated acknowledges a new ticket.
	TicketCreated = "Ticket created! <#%s>"

	// TicketClosed acknowledges a ticket closure where the owner was notified.
	TicketClosed = "Ticket closed and user notified."

	// TicketClosedNotNotified acknowledges a ticket closure where the owner could not be messaged.
	TicketClosedNotNotified = "Ticket closed. The user could not be notified."

	// TicketClosing is posted in the ticket channel before it is deleted.
	TicketClosing = "This ticket has been closed by <@%s>. This channel will be deleted shortly."

	// RatingThanks acknowledges a rating.
	RatingThanks = "Thank you for your feedback! You rated us %d ⭐."

	// TicketingEnabled acknowledges the enable setup command.
	TicketingEnabled = "Ticketing has been enabled in channel <#%s>. The ticket menu will appear shortly."

	// TicketingDisabled acknowledges the disable setup command.
	TicketingDisabled = "Ticketing has been disabled."

	// TicketingTextChannelRequired is shown when the setup command is given a non text channel.
	TicketingTextChannelRequired = "You must provide a text channel for ticketing."
)
