package i18n

var builtinCatalogs = map[string]map[string]string{
	"en-US": {
		"report.title":          "Tournament %s: %d rounds, %d matches, seed %d",
		"report.col.agent":      "Agent",
		"report.col.matches":    "Matches",
		"report.col.wins":       "Wins",
		"report.col.win_pct":    "Win %%",
		"report.col.avg_score":  "Avg score",
		"report.col.avg_rank":   "Avg rank",
		"report.col.liar_acc":   "Liar acc.",
		"report.col.illegal":    "Illegal",
		"report.col.faults":     "Faults",
		"report.col.rank":       "#",
		"report.col.dice_lost":  "Dice lost",
		"report.turn_guards":    "%d hands ended by the turn guard",
		"report.highscore":      "High score updated for %s: %.1f",
		"report.faults.summary": "%d agent faults recorded",

		"errors.ROSTER_EMPTY":                   "At least one agent is required.",
		"errors.ROSTER_INVALID_SPEC":            "Agent spec {{.Spec}} is not valid.",
		"errors.AGENT_UNKNOWN":                  "Unknown agent {{.Kind}}.",
		"errors.AGENT_LOAD_FAILED":              "Agent {{.Agent}} could not be loaded.",
		"errors.AGENT_NAME_CONFLICT":            "Agent name {{.Agent}} is used twice.",
		"errors.AGENT_INVALID_FACTORY":          "Agent {{.Agent}} has no strategy factory.",
		"errors.TOURNAMENT_INVALID_ROUNDS":      "Rounds must be at least 1, got {{.Rounds}}.",
		"errors.TOURNAMENT_INVALID_MAX_PLAYERS": "Max players must be at least 2, got {{.MaxPlayers}}.",
		"errors.TOURNAMENT_INVALID_DICE":        "Starting dice must be at least 1, got {{.Dice}}.",
		"errors.TOURNAMENT_TOO_FEW_AGENTS":      "A tournament needs at least 2 agents, got {{.Agents}}.",
		"errors.TOURNAMENT_MATCH_FAILED":        "Match {{.Round}}/{{.Group}} failed.",
		"errors.NOT_FOUND":                      "{{.Resource}} was not found.",
		"errors.LIMIT_EXCEEDED":                 "{{.Field}} exceeds the limit of {{.Limit}}.",
		"errors.STORE_UNAVAILABLE":              "No results database is configured.",
	},
	"pt-BR": {
		"report.title":          "Torneio %s: %d rodadas, %d partidas, semente %d",
		"report.col.agent":      "Agente",
		"report.col.matches":    "Partidas",
		"report.col.wins":       "Vitórias",
		"report.col.win_pct":    "%% Vitórias",
		"report.col.avg_score":  "Pontos méd.",
		"report.col.avg_rank":   "Posição méd.",
		"report.col.liar_acc":   "Acerto mentira",
		"report.col.illegal":    "Ilegais",
		"report.col.faults":     "Falhas",
		"report.col.rank":       "#",
		"report.col.dice_lost":  "Dados perdidos",
		"report.turn_guards":    "%d mãos encerradas pelo limite de turnos",
		"report.highscore":      "Recorde atualizado para %s: %.1f",
		"report.faults.summary": "%d falhas de agente registradas",

		"errors.ROSTER_EMPTY":                   "Pelo menos um agente é necessário.",
		"errors.AGENT_UNKNOWN":                  "Agente desconhecido {{.Kind}}.",
		"errors.AGENT_LOAD_FAILED":              "Não foi possível carregar o agente {{.Agent}}.",
		"errors.TOURNAMENT_INVALID_ROUNDS":      "O número de rodadas deve ser pelo menos 1, recebido {{.Rounds}}.",
		"errors.TOURNAMENT_INVALID_MAX_PLAYERS": "O máximo de jogadores deve ser pelo menos 2, recebido {{.MaxPlayers}}.",
		"errors.TOURNAMENT_TOO_FEW_AGENTS":      "Um torneio precisa de pelo menos 2 agentes, recebido {{.Agents}}.",
		"errors.NOT_FOUND":                      "{{.Resource}} não foi encontrado.",
		"errors.LIMIT_EXCEEDED":                 "{{.Field}} excede o limite de {{.Limit}}.",
	},
}
