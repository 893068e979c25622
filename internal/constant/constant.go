// Package constant defines the protocol constants shared across the Nintendo
// account authorization flow and the game-library clients. The user-agent and
// version strings are part of the wire protocol: the remote services reject
// requests that do not carry them exactly.
package constant

const (
	// NSOAppVersion is the Nintendo Switch Online app version reported in the
	// OnlineLounge and znca user agents.
	NSOAppVersion = "2.7.0"

	// MyNintendoAppVersion is the My Nintendo app version reported in the znej
	// user agent used by the play-history API.
	MyNintendoAppVersion = "2.0.0"
)

const (
	// UserAgentNSO is sent on the accounts.nintendo.com token exchanges.
	UserAgentNSO = "OnlineLounge/" + NSOAppVersion + " NASDKAPI Android"

	// UserAgentZnca is sent on the znc game-server login call.
	UserAgentZnca = "com.nintendo.znca/" + NSOAppVersion + " (Android/7.1.2)"

	// UserAgentZnej is sent on the My Nintendo play-history call.
	UserAgentZnej = "com.nintendo.znej/" + MyNintendoAppVersion + " (iOS/16.6)"

	// UserAgentAttestation is sent on the third-party attestation call.
	UserAgentAttestation = "nx-embeds/1.0.0"
)

// PlatformAndroid is the X-Platform tag the accounts and znc APIs expect.
const PlatformAndroid = "Android"
