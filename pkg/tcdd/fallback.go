package tcdd

import "github.com/aktarma/aktarma/pkg/itinerary"

// fallbackStations keeps search usable when the station feed is down.
// IDs match the upstream assignments.
var fallbackStations = []itinerary.Station{
	{ID: 98, Name: "ANKARA GAR"},
	{ID: 1325, Name: "İSTANBUL(SÖĞÜTLÜÇEŞME)"},
	{ID: 48, Name: "İSTANBUL(PENDİK)"},
	{ID: 1323, Name: "İSTANBUL(BOSTANCI)"},
	{ID: 1322, Name: "İSTANBUL(HALKALI)"},
	{ID: 1327, Name: "İSTANBUL(YEDİKULE)"},
	{ID: 1328, Name: "İSTANBUL(SİRKECİ)"},
	{ID: 20, Name: "GEBZE"},
	{ID: 1135, Name: "İZMİT YHT"},
	{ID: 5, Name: "ARİFİYE"},
	{ID: 87, Name: "ESKİŞEHİR"},
	{ID: 103, Name: "KONYA"},
	{ID: 89, Name: "AFYONKARAHİSAR"},
	{ID: 92, Name: "KÜTAHYA"},
	{ID: 100, Name: "KARAMAN"},
	{ID: 753, Name: "ADANA"},
	{ID: 170, Name: "MERSİN"},
	{ID: 130, Name: "KAYSERİ"},
	{ID: 140, Name: "SİVAS"},
	{ID: 150, Name: "ERZURUM"},
	{ID: 151, Name: "KARS"},
	{ID: 148, Name: "ELAZIĞ"},
	{ID: 147, Name: "MALATYA"},
	{ID: 180, Name: "İZMİR BASMANE"},
	{ID: 181, Name: "İZMİR ALSANCAK"},
	{ID: 185, Name: "DENİZLİ"},
	{ID: 77, Name: "BALIKESİR"},
	{ID: 79, Name: "BANDIRMA"},
	{ID: 200, Name: "ZONGULDAK"},
	{ID: 120, Name: "SAMSUN"},
	{ID: 125, Name: "AMASYA"},
	{ID: 145, Name: "TOKAT"},
	{ID: 95, Name: "ÇANKIRI"},
	{ID: 677, Name: "GÖLCÜK"},
}
