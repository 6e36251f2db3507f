package corpus

// Library returns the hand-authored library-services collection (12 entries).
// A fresh slice is returned on every call.
func Library() []Document {
	return []Document{
		NewDocument("doc_001", "Getting a library card",
			"New members bring a photo ID and proof of address to the front desk. "+
				"The card is printed on the spot and works for both physical and digital checkouts.",
			"membership", "getting-started"),
		NewDocument("doc_002", "Renewing borrowed books",
			"Most books renew twice online from the My Account page. "+
				"If an item has a hold, returns are due on the original date to avoid late fees.",
			"borrowing", "due-dates"),
		NewDocument("doc_003", "Late fees",
			"Books accrue 25 cents per day after the due date with a five dollar maximum. "+
				"Fees clear automatically once the item is returned and paid online or at the desk.",
			"borrowing", "fees"),
		NewDocument("doc_004", "Storytime schedule",
			"Children's storytime runs every Tuesday and Thursday at 10 a.m. in the community room. "+
				"Spots are first come, first served with a thirty family capacity.",
			"events", "family"),
		NewDocument("doc_005", "Computer access",
			"Public computers are available during open hours. "+
				"Sessions last 60 minutes and can be extended at the desk if no one is waiting.",
			"technology", "access"),
		NewDocument("doc_006", "Printing policy",
			"Our printing policy: black-and-white printing costs ten cents per page and color printing costs fifty cents. "+
				"Pay with cash or a preloaded print card at the release station.",
			"technology", "services"),
		NewDocument("doc_007", "Meeting room reservations",
			"Groups can reserve the meeting room up to four hours per week. "+
				"Book online two weeks in advance or call the front desk for same-day availability.",
			"rooms", "reservations"),
		NewDocument("doc_008", "E-book help",
			"Download the LibReader app, sign in with your library card number, and tap Borrow to send titles to your device. "+
				"Staff can help reset a PIN if the login fails.",
			"ebooks", "support"),
		NewDocument("doc_009", "Volunteer program",
			"Volunteers sort donations, assist at events, and help shelve books. "+
				"Fill out the online interest form and attend the monthly orientation to get started.",
			"community", "volunteers"),
		NewDocument("doc_010", "Book donation guidelines",
			"The library accepts gently used books published within the last five years. "+
				"Drop donations at the rear entrance between 9 a.m. and noon on Saturdays.",
			"donations", "policies"),
		NewDocument("doc_011", "Library hours",
			"Monday through Thursday 9 a.m. to 8 p.m., Friday and Saturday 9 a.m. to 5 p.m., "+
				"closed on Sundays and major holidays.",
			"visiting", "hours"),
		NewDocument("doc_012", "Wi-Fi and seating",
			"Free Wi-Fi is available throughout the building; the password is posted at each table. "+
				"Quiet study tables sit upstairs, and the cafe seating is near the entrance.",
			"technology", "spaces"),
	}
}
