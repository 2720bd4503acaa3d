// Package cities holds the sampling pool of city names used to synthesize
// measurement files.
package cities

import "golang.org/x/exp/rand"

// Names is a sampling pool, not a set: duplicates are allowed and weigh the
// distribution towards the repeated city.
var Names = [...]string{
	"Gali-Makhian-Wali", "Mumbai", "Delhi", "Bangalore", "Hyderabad", "Ahmedabad", "Chennai",
	"Kolkata", "Pune", "Jaipur", "Lucknow", "Kanpur", "Nagpur", "Indore", "Thane", "Bhopal",
	"Visakhapatnam", "Patna", "Vadodara", "Ghaziabad", "Ludhiana", "Agra", "Nashik", "Ranchi",
	"Faridabad", "Meerut", "Rajkot", "Kalyan-Dombivli", "Vasai-Virar", "Varanasi", "Srinagar",
	"Aurangabad", "Dhanbad", "Amritsar", "Sonipat", "Navi-Mumbai", "Allahabad", "Howrah", "Gwalior",
	"Jabalpur", "Coimbatore", "Vijayawada", "Jodhpur", "Madurai", "Raipur", "Kota", "Chandigarh",
	"Guwahati", "Solapur", "Hubballi-Dharwad", "Mysore", "Tiruchirappalli", "Bareilly", "Aligarh",
	"Tiruppur", "Moradabad", "Bhubaneswar", "Salem", "Warangal", "Guntur", "Bhiwandi", "Saharanpur",
	"Gorakhpur", "Bikaner", "Amravati", "Hisar", "Jamshedpur", "Bhilai", "Cuttack", "Firozabad",
	"Kochi", "Nellore", "Bhavnagar", "Dehradun", "Durgapur", "Asansol", "Rourkela", "Tezpur",
	"Nanded", "Kolhapur", "Ajmer", "Akola", "Gulbarga", "Ujjain", "Bhosari", "Jamnagar", "Loni",
	"Siliguri", "Jhansi", "Ulhasnagar", "Jammu", "Sangli-Miraj-&-Kupwad", "Belagavi", "Mangalore",
	"Erode", "Tirunelveli", "Malegaon", "Gaya", "Udaipur", "Maheshtala", "Davanagere", "Kozhikode",
	"Kurnool", "Bokaro", "Rajahmundry", "South Dumdum", "Gopalpur", "Hajipur", "Bilaspur",
	"Muzaffarnagar", "Mathura", "Patiala", "Sagar", "Vellore", "Bijapur", "Shimoga", "Burhanpur",
	"Panipat", "Darbhanga", "Dibrugarh", "Tumkur", "Bally", "Muzaffarpur", "Ambattur", "North-Dumdum",
	"Cumbum", "Rohtak", "Bhagalpur", "Kollam", "Dewas", "Nizamabad", "Shahjahanpur", "Bharatpur",
	"Bhusawal", "Ratlam", "Chhindwara", "Dindigul", "Rewa", "Hajipur", "Ambala", "Korba", "Purnia",
	"Satna", "Kakinada", "Bhimavaram", "Ongole", "Kundara", "Hosur", "Adoni", "Machilipatnam",
	"Proddatur", "Tiruvannamalai", "Sikar", "Gondia", "Bhiwani", "Sirsa", "Karaikal", "Chittoor",
	"Dibrugarh", "Tezpur", "Shillong", "Imphal", "Aizawl", "Itanagar", "Kohima", "Agartala",
	"Gangtok", "Kavaratti", "Port-Blair", "Daman", "Silvassa", "Panaji", "Margao", "Mapusa",
	"Porvorim", "Karwar", "Hospet", "Lulla-Nagar", "Chikkamagaluru", "Raichur", "Bidar", "Yavatmal",
	"Chandrapur", "Wardha", "Nanded", "Gondia", "Hingoli", "Parbhani", "LaiLunga", "Jalgaon",
	"Amreli", "Bhuj", "Mehsana", "Anand", "Palanpur", "Surendranagar", "Gandhidham", "Himatnagar",
	"Junagadh", "Porbandar", "Navsari", "Vapi", "Valsad", "Morbi", "Dahod", "Godhra", "Chhapra",
	"Munger", "Arrah", "Karnal", "Begusarai", "Katihar", "Siwan", "Gopalganj", "Samastipur",
	"Darbhanga", "Sasaram", "Hazaribagh", "Giridih", "Daltonganj", "Nagaon",
}

// Random returns a city drawn uniformly from Names.
func Random(r *rand.Rand) string {
	return Names[r.Intn(len(Names))]
}
