package olympic

import "fmt"

const SelectAllQuery = `{
  olympicWinners {
    _id
    _creationTime
    athlete
    age
    country
    year
    date
    sport
    gold
    silver
    bronze
    total
  }
}`

func CreateMutation(athlete string, country string, sport string) string {
	return fmt.Sprintf(`mutation {
  createOlympicWinner(athlete: "%s", age: 24, country: "%s", sport: "%s")
}`, athlete, country, sport)
}

func UpdateGoldMutation(id string, gold int) string {
	return fmt.Sprintf(`mutation {
  updateOlympicWinner(id: "%s", gold: %d)
}`, id, gold)
}
