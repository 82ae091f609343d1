package state

// Fixed keys.
const (
	KeyAnyoneHome     = "heima_anyone_home"
	KeyPeopleCount    = "heima_people_count"
	KeyPeopleHomeList = "heima_people_home_list"

	KeyAnonymousPresence   = "heima_anonymous_presence"
	KeyAnonymousConfidence = "heima_anonymous_presence_confidence"
	KeyAnonymousSource     = "heima_anonymous_presence_source"

	KeyHouseState       = "heima_house_state"
	KeyHouseStateReason = "heima_house_state_reason"

	KeyHeatingIntent        = "heima_heating_intent"
	KeyHeatingManualHold    = "heima_heating_manual_hold"
	KeyHeatingApplyingGuard = "heima_heating_applying_guard"

	KeySecurityIntent = "heima_security_intent"
	KeySecurityState  = "heima_security_state"
	KeySecurityReason = "heima_security_reason"

	KeyLastEvent  = "heima_last_event"
	KeyEventStats = "heima_event_stats"
)

// PersonHome is the binary key for a person's presence.
func PersonHome(slug string) string { return "heima_person_" + slug + "_home" }

// PersonSource is the sensor key naming the method that produced presence.
func PersonSource(slug string) string { return "heima_person_" + slug + "_source" }

// PersonConfidence is the sensor key for presence confidence (0..100).
func PersonConfidence(slug string) string { return "heima_person_" + slug + "_confidence" }

// PersonOverride is the select key for a person's manual override.
func PersonOverride(slug string) string { return "heima_person_" + slug + "_override" }

// RoomOccupied is the binary key for a room's occupancy.
func RoomOccupied(room string) string { return "heima_occ_" + room }

// RoomSource is the sensor key listing a room's occupancy sources.
func RoomSource(room string) string { return "heima_occ_" + room + "_source" }

// RoomLastChange is the sensor key stamped when a room's occupancy flips.
func RoomLastChange(room string) string { return "heima_occ_" + room + "_last_change" }

// ZoneOccupied is the binary key for a lighting zone's occupancy.
func ZoneOccupied(zone string) string { return "heima_occ_zone_" + zone }

// LightingIntent is the select key for a zone's requested lighting intent.
func LightingIntent(zone string) string { return "heima_lighting_intent_" + zone }

// LightingHold is the binary key for a room's manual lighting hold.
func LightingHold(room string) string { return "heima_lighting_manual_hold_" + room }
