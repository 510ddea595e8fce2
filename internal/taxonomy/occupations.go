package taxonomy

// occupationTable lists the SSYK 2012 occupation groups exposed as dashboard
// filters, with the 4-digit concept codes the JobTech search API expects in
// its occupation-group query parameter.
var occupationTable = []struct {
	code string
	name string
}{
	{"2142", "Civilingenjörsyrken inom bygg och anläggning"},
	{"2144", "Civilingenjörsyrken inom maskinteknik"},
	{"2146", "Civilingenjörsyrken inom elektroteknik"},
	{"2212", "Specialistläkare"},
	{"2221", "Grundutbildade sjuksköterskor"},
	{"2281", "Apotekare"},
	{"2341", "Grundskollärare"},
	{"2342", "Förskollärare"},
	{"2411", "Revisorer"},
	{"2412", "Controller"},
	{"2413", "Finansanalytiker och investeringsrådgivare"},
	{"2431", "Marknadsanalytiker och marknadsförare"},
	{"2511", "Systemanalytiker och IT-arkitekter"},
	{"2512", "Mjukvaru- och systemutvecklare"},
	{"2513", "Utvecklare inom spel och digitala media"},
	{"2514", "Systemtestare och testledare"},
	{"2515", "Systemförvaltare"},
	{"2516", "IT-säkerhetsspecialister"},
	{"2611", "Jurister och åklagare"},
	{"3151", "Driftstekniker vid värme- och vattenverk"},
	{"3321", "Försäkringsrådgivare"},
	{"3322", "Företagssäljare"},
	{"4226", "Receptionister"},
	{"4321", "Lager- och terminalpersonal"},
	{"5120", "Kockar och kallskänkor"},
	{"5221", "Säljare inom dagligvaror"},
	{"5222", "Butikssäljare inom fackhandel"},
	{"5311", "Barnskötare"},
	{"5321", "Undersköterskor inom hemtjänst och äldreboende"},
	{"7111", "Träarbetare och snickare"},
	{"7231", "Motorfordonsmekaniker och fordonsreparatörer"},
	{"8331", "Buss- och spårvagnsförare"},
	{"8332", "Lastbilsförare"},
	{"9111", "Städare"},
	{"9412", "Restaurang- och köksbiträden"},
}
