package views

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gymfeetrack/gymfeetrack/internal/cli/client"
	"github.com/gymfeetrack/gymfeetrack/internal/cli/session"
)

// Loading is shown while the session is still resolving
func Loading(w io.Writer) {
	note(w, "Loading authentication...")
}

// NotFound renders unmatched routes
func NotFound(w io.Writer, path string) {
	Error(w, "404 - Page Not Found")
	note(w, "No page at %s. Try: gymctl open /plans", path)
}

// Login renders the login page
func Login(w io.Writer) {
	heading(w, "Login")
	fmt.Fprintln(w, "Log in with: gymctl login --username <name>")
	note(w, "No account yet? gymctl register")
}

// Register renders the registration page
func Register(w io.Writer) {
	heading(w, "Register")
	fmt.Fprintln(w, "Create an account with: gymctl register --username <name> --email <email>")
}

// Status renders the navigation bar: who is signed in and where they can go
func Status(w io.Writer, s session.Session, apiURL string) {
	if s.Loading {
		Loading(w)
		return
	}

	fmt.Fprintf(w, "%s  %s\n", titleStyle.Render("GymFeeTrack"), subtleStyle.Render(apiURL))
	if !s.IsAuthenticated {
		fmt.Fprintln(w, "Not logged in.")
		note(w, "Pages: /plans /login /register")
		return
	}

	role := "Member"
	pages := "/plans /dashboard"
	if s.IsAdmin {
		role = "Admin"
		pages += " /admin"
	}
	fmt.Fprintf(w, "Welcome, %s! (%s)\n", s.User.Username, role)
	note(w, "Pages: %s", pages)
}

// Plans renders the membership plan list. Admins see plan IDs and the
// commands to manage them.
func Plans(w io.Writer, plans []client.Plan, isAdmin bool) {
	heading(w, "Membership Plans")

	if len(plans) == 0 {
		fmt.Fprintln(w, "No membership plans found.")
		if isAdmin {
			note(w, "\nAdd one with: gymctl plans add --name <name> --price <price> --duration <days>")
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if isAdmin {
		fmt.Fprintln(tw, "ID\tNAME\tPRICE\tDURATION\tDESCRIPTION")
		fmt.Fprintln(tw, "──\t────\t─────\t────────\t───────────")
	} else {
		fmt.Fprintln(tw, "NAME\tPRICE\tDURATION\tDESCRIPTION")
		fmt.Fprintln(tw, "────\t─────\t────────\t───────────")
	}
	for _, p := range plans {
		if isAdmin {
			fmt.Fprintf(tw, "%d\t", p.ID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d days\t%s\n", p.Name, priceStyle.Render(Price(p.Price)), p.DurationDays, orDash(p.Description))
	}
	tw.Flush()

	if isAdmin {
		note(w, "\nManage plans with: gymctl plans add | edit <id> | rm <id>")
	}
}

// MemberDashboard renders the signed-in member's subscriptions and payments
func MemberDashboard(w io.Writer, s session.Session, subs []client.Subscription, payments []client.Payment) {
	heading(w, fmt.Sprintf("Welcome to your Dashboard, %s!", s.User.Username))

	fmt.Fprintln(w, titleStyle.Render("Your Subscriptions"))
	if len(subs) == 0 {
		fmt.Fprintln(w, "You have no active subscriptions.")
		note(w, "Browse plans with: gymctl plans")
	} else {
		subscriptionTable(w, subs, false)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("Your Payments"))
	if len(payments) == 0 {
		fmt.Fprintln(w, "No payment history found.")
	} else {
		paymentTable(w, payments, false)
	}

	if s.IsAdmin {
		note(w, "\nAdmin tools: gymctl open /admin")
	}
}

// AdminDashboard renders the gym-wide overview for admins
func AdminDashboard(w io.Writer, s session.Session, profiles []client.Profile, subs []client.Subscription, payments []client.Payment) {
	heading(w, fmt.Sprintf("Admin Dashboard (%s)", s.User.Username))

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Members (%d)", len(profiles))))
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No members yet.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tPHONE\tJOINED\tROLE")
		fmt.Fprintln(tw, "──\t────────\t─────\t─────\t──────\t────")
		for _, p := range profiles {
			role := "member"
			if p.IsGymAdmin {
				role = "admin"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.User.Username, orDash(p.User.Email), orDash(p.PhoneNumber), p.DateOfJoining, role)
		}
		tw.Flush()
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Subscriptions (%d)", len(subs))))
	if len(subs) == 0 {
		fmt.Fprintln(w, "No subscriptions yet.")
	} else {
		subscriptionTable(w, subs, true)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Payments (%d)", len(payments))))
	if len(payments) == 0 {
		fmt.Fprintln(w, "No payments recorded.")
	} else {
		paymentTable(w, payments, true)
	}
}

func subscriptionTable(w io.Writer, subs []client.Subscription, showMember bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if showMember {
		fmt.Fprintln(tw, "ID\tMEMBER\tPLAN\tSTART\tEND\tSTATUS")
		fmt.Fprintln(tw, "──\t──────\t────\t─────\t───\t──────")
	} else {
		fmt.Fprintln(tw, "ID\tPLAN\tSTART\tEND\tSTATUS")
		fmt.Fprintln(tw, "──\t────\t─────\t───\t──────")
	}
	for _, sub := range subs {
		fmt.Fprintf(tw, "%d\t", sub.ID)
		if showMember {
			fmt.Fprintf(tw, "%s\t", memberName(sub.UserProfile))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", planName(sub.Plan), sub.StartDate, sub.EndDate, subscriptionStatus(sub))
	}
	tw.Flush()
}

func paymentTable(w io.Writer, payments []client.Payment, showMember bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if showMember {
		fmt.Fprintln(tw, "ID\tMEMBER\tAMOUNT\tDATE\tMETHOD\tSTATUS")
		fmt.Fprintln(tw, "──\t──────\t──────\t────\t──────\t──────")
	} else {
		fmt.Fprintln(tw, "ID\tAMOUNT\tDATE\tMETHOD\tSTATUS")
		fmt.Fprintln(tw, "──\t──────\t────\t──────\t──────")
	}
	for _, p := range payments {
		fmt.Fprintf(tw, "%d\t", p.ID)
		if showMember {
			var profile *client.Profile
			if p.MemberSubscription != nil {
				profile = p.MemberSubscription.UserProfile
			}
			fmt.Fprintf(tw, "%s\t", memberName(profile))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", Price(p.Amount), p.PaymentDate.Format("2006-01-02"), p.PaymentMethod, p.Status)
	}
	tw.Flush()
}

func subscriptionStatus(sub client.Subscription) string {
	if sub.Status == "Active" && !sub.IsActive {
		return "Active (lapsed)"
	}
	return sub.Status
}

func planName(p *client.Plan) string {
	if p == nil {
		return "N/A"
	}
	return p.Name
}

func memberName(p *client.Profile) string {
	if p == nil {
		return "N/A"
	}
	return p.User.Username
}

// Subscriptions renders a subscription list; admins also see the member column
func Subscriptions(w io.Writer, subs []client.Subscription, isAdmin bool) {
	if len(subs) == 0 {
		fmt.Fprintln(w, "No subscriptions found.")
		return
	}
	subscriptionTable(w, subs, isAdmin)
}

// Payments renders a payment list; admins also see the member column
func Payments(w io.Writer, payments []client.Payment, isAdmin bool) {
	if len(payments) == 0 {
		fmt.Fprintln(w, "No payment history found.")
		return
	}
	paymentTable(w, payments, isAdmin)
}

// Profile renders a member profile
func Profile(w io.Writer, p client.Profile) {
	heading(w, "Profile")

	role := "Member"
	if p.IsGymAdmin {
		role = "Admin"
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Username:\t%s\n", p.User.Username)
	fmt.Fprintf(tw, "Email:\t%s\n", orDash(p.User.Email))
	fmt.Fprintf(tw, "Phone:\t%s\n", orDash(p.PhoneNumber))
	fmt.Fprintf(tw, "Address:\t%s\n", orDash(p.Address))
	fmt.Fprintf(tw, "Joined:\t%s\n", orDash(p.DateOfJoining))
	fmt.Fprintf(tw, "Role:\t%s\n", role)
	tw.Flush()
}
